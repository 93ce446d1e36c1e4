package ports

// ManifestPort extracts the application package from an AndroidManifest.xml.
type ManifestPort interface {
	// ExtractPackage returns the package attribute of the root <manifest>
	// element. Fails with a not-found error when the file is absent and an
	// invalid-argument error when the XML is malformed or the attribute is
	// missing.
	ExtractPackage(path string) (string, error)
}
