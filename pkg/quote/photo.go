package quote

// Photo is one file chosen in the file picker.
type Photo struct {
	Name        string
	ContentType string
	Data        []byte
}
