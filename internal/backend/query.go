package backend

import (
	"net/url"
	"strconv"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

const defaultPageSize = 10

// 'pagina', 'tamanio' and 'sort' parameters. defaultSort used when query has none
func pageValues(q models.PageQuery, defaultSort string) url.Values {
	size := q.Size
	if size <= 0 {
		size = defaultPageSize
	}

	v := url.Values{}
	v.Set("pagina", strconv.Itoa(max(q.Page, 0)))
	v.Set("tamanio", strconv.Itoa(size))

	sort := q.Sort
	if sort == "" {
		sort = defaultSort
	}
	if sort != "" {
		v.Set("sort", sort)
	}
	return v
}

// 'page', 'size', 'ordenarPor' and 'direccion' parameters used by request workflows
func orderedPageValues(q models.OrderedPageQuery, defaultOrderBy string) url.Values {
	size := q.Size
	if size <= 0 {
		size = defaultPageSize
	}
	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = defaultOrderBy
	}
	direction := q.Direction
	if direction != "asc" {
		direction = "desc"
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(max(q.Page, 0)))
	v.Set("size", strconv.Itoa(size))
	v.Set("ordenarPor", orderBy)
	v.Set("direccion", direction)
	return v
}

func setID(v url.Values, key string, id *int64) {
	if id != nil {
		v.Set(key, strconv.FormatInt(*id, 10))
	}
}

func setString(v url.Values, key string, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}
