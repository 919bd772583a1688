package main

import (
	"fmt"
	"os"

	"github.com/use-agent/solvr/extractor"
	"github.com/use-agent/solvr/scraper"
)

// Run prints what the extraction chain finds on a page. Nothing found
// prints the fallback content the LLM would receive instead.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	ex := extractor.Default(deps.Logger)

	var (
		res    extractor.Result
		source = c.URL
	)
	if c.HTML != "" {
		source = c.HTML
		f, err := os.Open(c.HTML)
		if err != nil {
			return fmt.Errorf("open %s: %w", c.HTML, err)
		}
		defer f.Close()
		page, err := extractor.NewHTMLPage(f)
		if err != nil {
			return err
		}
		res = ex.Extract(deps.Ctx, page)
	} else {
		opener := deps.Opener
		if opener == nil {
			opener = scraper.NewLauncher(deps.Config.Browser, deps.Config.Scraper, deps.Logger)
		}
		page, err := opener.Open(deps.Ctx, c.URL)
		if err != nil {
			deps.Logger.Warn("page could not be opened, using fallback content", "url", c.URL, "error", err)
			fmt.Fprintln(deps.Stdout, extractor.FallbackContent(c.URL))
			return nil
		}
		defer page.Close()
		res = ex.Extract(deps.Ctx, page)
	}

	if !res.Found() {
		fmt.Fprintln(deps.Stdout, extractor.FallbackContent(source))
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Title: %s\n\nDescription: %s\n", res.Title, res.Description)
	return nil
}
