package helpers

// Joiner concatenates output chunks with a single allocation. The printer
// uses it to stitch the prologue, the runtime helpers and the body together.
type Joiner struct {
	chunks []string
	length int
}

func (j *Joiner) AddString(data string) {
	j.chunks = append(j.chunks, data)
	j.length += len(data)
}

func (j *Joiner) AddBytes(data []byte) {
	j.AddString(string(data))
}

func (j *Joiner) Done() []byte {
	buffer := make([]byte, 0, j.length)
	for _, chunk := range j.chunks {
		buffer = append(buffer, chunk...)
	}
	return buffer
}
