package main

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestNoEnvAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, Analyzer, "forbidden", "aliased", "core/config")
}
