package domain

type Book struct {
	ID     string `json:"bookId"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn,omitempty"`
}
