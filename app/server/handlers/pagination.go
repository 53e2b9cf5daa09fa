package handlers

import (
	"acquisitions-api/app/server/apperr"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"
)

// page*limit 不会溢出 int
const (
	paginationMaxPage  = 1_000_000
	paginationMaxLimit = 1000
)

// parsePagination 没有 page 和 limit 时返回全部；page=0&limit=0 同样表示全部
func (a *App) parsePagination(c echo.Context) (showAll bool, page int, limit int, err error) {
	if c.QueryParam("page") == "" && c.QueryParam("limit") == "" {
		return true, -1, -1, nil
	}

	var rawPage, rawLimit uint
	if err := echo.QueryParamsBinder(c).
		Uint("page", &rawPage).
		Uint("limit", &rawLimit).
		BindError(); err != nil {
		return false, 0, 0, apperr.Invalid(map[string]string{"pagination": "page and limit must be non-negative integers"})
	}

	// 限制范围
	if err := (validation.Errors{
		"page":  validation.Validate(rawPage, validation.Max(uint(paginationMaxPage))),
		"limit": validation.Validate(rawLimit, validation.Max(uint(paginationMaxLimit))),
	}).Filter(); err != nil {
		return false, 0, 0, invalid(err)
	}

	if rawPage == 0 && rawLimit == 0 && c.QueryParam("page") != "" && c.QueryParam("limit") != "" {
		// 特殊参数：展示全部
		return true, -1, -1, nil
	}

	// 映射前：第几页，每页限制多少个
	// 映射后：页减一，限制不变
	if rawPage < 1 {
		page = 0
	} else {
		page = int(rawPage) - 1
	}

	if rawLimit == 0 {
		limit = 100
	} else {
		limit = int(rawLimit)
	}

	return false, page, limit, nil
}

func (a *App) calcMaxPage(count int64, showAll bool, limit int) int64 {
	if showAll {
		return 1
	} else {
		pageMax := count / int64(limit)
		if (count % int64(limit)) != 0 {
			pageMax++
		}
		return pageMax
	}
}
