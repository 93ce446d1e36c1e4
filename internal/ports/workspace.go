package ports

// ResTreePort discovers the files of a resource tree.
type ResTreePort interface {
	// ScanTree walks a res directory and returns a logical-path to
	// absolute-path mapping for every resource file in it. Logical paths
	// are slash-separated and relative to the tree root (e.g.
	// "values/strings.xml", "drawable-hdpi/icon.png").
	ScanTree(root string) (map[string]string, error)
}
