//go:build !unix

package source

// OpenMmap falls back to plain file reads where mmap is unavailable.
func OpenMmap(path string) (Source, error) {
	return OpenFile(path)
}
