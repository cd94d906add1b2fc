package forbidden

import "os"

func ReadKey() string {
	return os.Getenv("OPENAI_API_KEY") // want "os.Getenv forbidden here - read settings from config.Config"
}

func LookupSelector() (string, bool) {
	return os.LookupEnv("FLOYD_SELECTORS") // want "os.LookupEnv forbidden here - read settings from config.Config"
}

func Expand(s string) string {
	return os.ExpandEnv(s) // want "os.ExpandEnv forbidden here - read settings from config.Config"
}

func Hostname() (string, error) {
	return os.Hostname()
}
