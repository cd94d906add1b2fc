package config

import "os"

func Addr() string {
	return os.Getenv("FLOYD_SERVER_ADDR")
}
