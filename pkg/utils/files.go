package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hackvm/pkg/translator"
)

// VMExt is the file extension of VM source modules.
const VMExt = ".vm"

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ModuleName returns the module name for a source path: the file name
// without its extension.
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadModules reads VM modules from the given paths. A directory contributes
// every *.vm file directly inside it, in name order.
func LoadModules(paths ...string) ([]translator.Module, error) {
	var files []string
	for _, p := range paths {
		full, _, err := GetPathInfo(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(full)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, full)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(full, "*"+VMExt))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: no %s files", p, VMExt)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}

	mods := make([]translator.Module, 0, len(files))
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		mods = append(mods, translator.Module{Name: ModuleName(f), Source: string(src)})
	}
	return mods, nil
}
