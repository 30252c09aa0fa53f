package models

// Page envelope returned by paginated backend listings
type Page[T any] struct {
	Content       []T  `json:"contenido"`
	Number        int  `json:"paginaActual"`
	Size          int  `json:"tamanio"`
	TotalElements int  `json:"totalElementos"`
	TotalPages    int  `json:"totalPaginas"`
	First         bool `json:"primera"`
	Last          bool `json:"ultima"`
	Empty         bool `json:"vacia"`
}

// Page request with 'pagina'/'tamanio'/'sort' parameters
type PageQuery struct {
	Page int
	Size int
	Sort string
}

// Page request with 'page'/'size'/'ordenarPor'/'direccion' parameters
// Used by request workflows (solicitudes)
type OrderedPageQuery struct {
	Page      int
	Size      int
	OrderBy   string
	Direction string
}
