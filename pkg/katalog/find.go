package katalog

import (
	"fmt"
	"path/filepath"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

var descriptorPattern = "*.txt"

// findDescriptors returns every descriptor file below root, skipping hidden entries.
func findDescriptors(root string) ([]string, error) {
	found := []string{}
	root = filepath.Clean(root)

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			base := filepath.Base(path)
			if path != root && base[0] == '.' {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}

			if de.IsDir() {
				return nil
			}

			ok, err := filepath.Match(descriptorPattern, base)
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			if ok {
				klog.V(1).Infof("found descriptor %s", path)
				found = append(found, path)
			}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			klog.Errorf("walk failure at %s: %v", path, err)
			return godirwalk.SkipNode
		},
	})

	return found, err
}
