package utils

import (
	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total},
		"links": iris.Map{},
	})
}

// Pagination reads page/per_page query params with sane clamps.
func Pagination(ctx iris.Context) (page, perPage int) {
	page = ctx.URLParamIntDefault("page", 1)
	if page <= 0 {
		page = 1
	}
	perPage = ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}
	return page, perPage
}
