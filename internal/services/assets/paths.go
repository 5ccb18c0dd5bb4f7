package assets

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ImagePath is where image index of a park is written: {dir}/{name}_{index}.jpg
func ImagePath(dir, name string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d.jpg", safeName(name), index))
}

// MapPath is where the rendered map of a park is written: {dir}/{name}_map.png
func MapPath(dir, name string) string {
	return filepath.Join(dir, safeName(name)+"_map.png")
}

// safeName keeps park names usable as file names. Only path separators are
// replaced; spaces and punctuation are left as the API sends them.
func safeName(name string) string {
	return strings.NewReplacer("/", "-", `\`, "-").Replace(name)
}
