// Command noenv reports environment reads outside the packages that own
// configuration. Everything else receives its settings from config.Config.
package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/singlechecker"
)

var Analyzer = &analysis.Analyzer{
	Name: "noenv",
	Doc:  "forbids reading the process environment outside core/config, core/llm and core/storage",
	Run:  run,
}

// allowedPackages may read the environment.
var allowedPackages = []string{"core/config", "core/llm", "core/storage"}

var envFuncs = map[string]bool{
	"Getenv":    true,
	"LookupEnv": true,
	"Environ":   true,
	"ExpandEnv": true,
}

func main() {
	singlechecker.Main(Analyzer)
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, allowed := range allowedPackages {
		if strings.Contains(pass.Pkg.Path(), allowed) {
			return nil, nil
		}
	}

	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
			if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "os" || !envFuncs[fn.Name()] {
				return true
			}
			pass.Reportf(call.Pos(),
				"os.%s forbidden here - read settings from config.Config", fn.Name())
			return true
		})
	}
	return nil, nil
}
