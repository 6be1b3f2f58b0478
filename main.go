package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cxykevin/contentio/config"
	"github.com/cxykevin/contentio/internal/cli"
	"github.com/cxykevin/contentio/log"
	"github.com/cxykevin/contentio/product"
)

// applyWorkdir 切换到 workdir，空串表示不切换
func applyWorkdir(workdir string, stderr io.Writer) bool {
	if workdir == "" {
		return true
	}
	if err := os.Chdir(workdir); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", product.Name, err)
		return false
	}
	return true
}

func main() {
	defer log.SolvePanic()
	config.Load()
	log.Load()
	// 读取环境变量 CONTENTIO_WORKDIR
	if !applyWorkdir(os.Getenv("CONTENTIO_WORKDIR"), os.Stderr) {
		log.Shutdown()
		os.Exit(cli.ExitUsage)
	}
	code := cli.Run(os.Args[1:], os.Stdout, os.Stderr)
	log.Shutdown()
	os.Exit(code)
}
