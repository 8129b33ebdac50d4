package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/haukened/discourse-new-tab/internal/dnt/gateways/dom"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/detector"
)

// pageFlags describes an HTML snapshot given on the command line.
type pageFlags struct {
	url     string
	globals []string
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.url, "url", "u", "", "absolute URL the snapshot was taken from")
	cmd.Flags().StringSliceVar(&f.globals, "global", nil, "global object names defined on the page")
	_ = cmd.MarkFlagRequired("url")
}

// load parses the snapshot at path. Globals named on the command line are
// added to the ones inferred from the page scripts.
func (f *pageFlags) load(path string) (detector.Page, error) {
	u, err := url.Parse(f.url)
	if err != nil || !u.IsAbs() {
		return detector.Page{}, fmt.Errorf("invalid page url %q", f.url)
	}
	fh, err := os.Open(path)
	if err != nil {
		return detector.Page{}, fmt.Errorf("failed to open page: %w", err)
	}
	defer fh.Close()
	doc, err := dom.Parse(fh, u)
	if err != nil {
		return detector.Page{}, err
	}
	globals := detector.InferGlobals(doc)
	for _, g := range f.globals {
		globals[g] = true
	}
	return detector.Page{Doc: doc, URL: u, Globals: globals}, nil
}
