package recognize

import "os"

// MissingModelFiles returns the model file paths from the configuration
// that do not exist on disk. An empty result means startup may proceed.
func MissingModelFiles(model *ModelConfig, punc *PuncConfig) []string {
	var paths []string
	if model != nil {
		paths = append(paths, model.Model, model.Tokens)
	}
	if punc != nil {
		paths = append(paths, punc.Model)
	}

	var missing []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		// Any stat failure (not just ENOENT) means the worker cannot
		// load the file, so report it before binding the port.
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	return missing
}
