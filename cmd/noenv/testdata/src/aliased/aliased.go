package aliased

import goos "os"

func All() []string {
	return goos.Environ() // want "os.Environ forbidden here - read settings from config.Config"
}
