package ports

// FileStorage abstracts the filesystem the audio lives on. Remove must
// return an error satisfying errors.Is(err, fs.ErrNotExist) when the path
// is already gone, so callers can treat that as already-cleaned.
type FileStorage interface {
	Exists(path string) bool
	Size(path string) (int64, error)
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
	Remove(path string) error
}
