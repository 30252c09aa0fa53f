package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nkiryanov/gestiondocente/internal/handlers/render"
	"github.com/nkiryanov/gestiondocente/internal/models"
)

type queryError struct {
	name string
}

func (e queryError) Error() string {
	return fmt.Sprintf("Invalid parameter '%s'", e.name)
}

// Optional integer query parameter. Nil if absent
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, queryError{name: name}
	}
	return &v, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	v, err := queryInt64(r, name)
	if err != nil || v == nil {
		return 0, err
	}
	return int(*v), nil
}

// Required integer path value, like {id}
func pathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, queryError{name: name}
	}
	return v, nil
}

// 'pagina', 'tamanio' and 'sort' parameters
func pageQuery(r *http.Request) (models.PageQuery, error) {
	page, err := queryInt(r, "pagina")
	if err != nil {
		return models.PageQuery{}, err
	}
	size, err := queryInt(r, "tamanio")
	if err != nil {
		return models.PageQuery{}, err
	}
	return models.PageQuery{Page: page, Size: size, Sort: r.URL.Query().Get("sort")}, nil
}

// 'page', 'size', 'ordenarPor' and 'direccion' parameters
func orderedPageQuery(r *http.Request) (models.OrderedPageQuery, error) {
	page, err := queryInt(r, "page")
	if err != nil {
		return models.OrderedPageQuery{}, err
	}
	size, err := queryInt(r, "size")
	if err != nil {
		return models.OrderedPageQuery{}, err
	}
	q := r.URL.Query()
	return models.OrderedPageQuery{
		Page:      page,
		Size:      size,
		OrderBy:   q.Get("ordenarPor"),
		Direction: q.Get("direccion"),
	}, nil
}

func badRequest(w http.ResponseWriter, err error) {
	render.ServiceError(w, err.Error(), http.StatusBadRequest)
}
