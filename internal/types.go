package internal

// MediaFile is a single discovered media file. Immutable once observed.
type MediaFile struct {
	Path string // absolute path
	Dir  string // containing directory, relative to the scan root ("" for the root itself)
	Name string // base name including extension
	Ext  string // lowercased extension without the leading dot
	Size int64
}

// ProgressUpdate reports scan progress to an optional display.
type ProgressUpdate struct {
	Processed   int
	Total       int
	Duplicates  int
	CurrentFile string
}
