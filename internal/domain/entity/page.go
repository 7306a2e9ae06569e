package entity

type PageContext struct {
	URL      string
	Title    string
	HTML     string
	Elements []RawElement
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
