package gvas

// SaveHeader mirrors the header block of the /api/upload payload.
// Every field is optional on the wire; absent fields render as empty strings
// in the stats panel. The version fields are pointers so a genuine zero can be
// told apart from "not present in this save".
type SaveHeader struct {
	Magic              string `json:"magic,omitempty"`
	SaveGameVersion    *int   `json:"save_game_version,omitempty"`
	PackageFileVersion *int   `json:"package_file_version,omitempty"`
	SaveGameClassName  string `json:"save_game_class_name,omitempty"`
}

// PropertyNode is one entry of the decoded property tree. A node is either a
// container (non-empty Children), a value leaf (Value present, no Children),
// or a bare node (neither). Child order is significant and preserved exactly
// as decoded; it reflects on-disk property order.
type PropertyNode struct {
	Name     string         `json:"name,omitempty"`
	Type     string         `json:"type,omitempty"`
	Value    any            `json:"value,omitempty"`
	Children []PropertyNode `json:"children,omitempty"`
	Meta     string         `json:"meta,omitempty"`
}

// IsContainer reports whether the node carries nested children.
func (p PropertyNode) IsContainer() bool {
	return len(p.Children) > 0
}

// HasValue reports whether the node exposes a scalar value. Only nil means
// absent; false and zero are real values.
func (p PropertyNode) HasValue() bool {
	return p.Value != nil
}

// UploadResponse mirrors the 2xx payload of POST /api/upload. Either field may
// be absent; absent Properties is an empty tree.
type UploadResponse struct {
	Header     *SaveHeader    `json:"header,omitempty"`
	Properties []PropertyNode `json:"properties,omitempty"`
}

// errorBody is the optional JSON shape of a non-2xx response.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}
