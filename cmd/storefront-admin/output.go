package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Kariqs/silkstitch-api/client"
	"github.com/Kariqs/silkstitch-api/services"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func flags(p services.ProductResponse) string {
	var out []string
	if p.IsNew {
		out = append(out, "new")
	}
	if p.IsSale {
		out = append(out, "sale")
	}
	return strings.Join(out, ",")
}

func printProducts(w io.Writer, format string, products []services.ProductResponse) error {
	if format == outputJSON {
		return printJSON(w, products)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tFLAGS")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), flags(p))
	}
	return tw.Flush()
}

func printProduct(w io.Writer, format string, p *services.ProductResponse) error {
	if format == outputJSON {
		return printJSON(w, p)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Category:\t%s\n", p.Category)
	fmt.Fprintf(tw, "Price:\t%s\n", p.Price.StringFixed(2))
	if p.OriginalPrice != nil {
		fmt.Fprintf(tw, "Original price:\t%s\n", p.OriginalPrice.StringFixed(2))
	}
	if p.Brand != nil {
		fmt.Fprintf(tw, "Brand:\t%s\n", *p.Brand)
	}
	fmt.Fprintf(tw, "Sizes:\t%s\n", strings.Join(p.Sizes, ", "))
	fmt.Fprintf(tw, "Colors:\t%s\n", strings.Join(p.Colors, ", "))
	fmt.Fprintf(tw, "Flags:\t%s\n", flags(*p))
	for i, img := range p.Images {
		fmt.Fprintf(tw, "Image %d:\t%s\n", i+1, img)
	}
	return tw.Flush()
}

func printUpload(w io.Writer, format string, result *client.UploadResult) error {
	if format == outputJSON {
		return printJSON(w, result)
	}
	for _, url := range result.URLs {
		fmt.Fprintln(w, url)
	}
	for _, name := range result.Failed {
		fmt.Fprintf(w, "failed: %s\n", name)
	}
	return nil
}
