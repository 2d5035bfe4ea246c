package routes

import (
	"net/http"

	"drively-server/storage"

	"github.com/kataras/iris/v12"
)

type uploadInput struct {
	Data     string `json:"data"`      // base64 data URL or raw base64
	PublicID string `json:"public_id"` // optional
}

// UploadImage handles a base64 image upload and returns the hosted URL.
func UploadImage(ctx iris.Context) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid payload"})
		return
	}
	url := storage.UploadBase64Image(in.Data, in.PublicID)
	if url == "" {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "upload failed"})
		return
	}
	ctx.JSON(iris.Map{"url": url})
}
