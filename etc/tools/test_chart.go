package main

import (
	"context"
	"fmt"
	"os"

	"ohlc-logchart/internal/charts"
	"ohlc-logchart/internal/series"
)

// go run etc/tools/test_chart.go [theme]
// in etc/charts/ohlc_log_chart.png, fixed seed so runs are comparable
func main() {
	fmt.Println("Generating test chart...")

	p := series.DefaultParams()
	p.Seed = 1
	res, err := series.Run(context.Background(), p)
	if err != nil {
		fmt.Printf("Error generating series: %v\n", err)
		os.Exit(1)
	}

	opts := charts.DefaultOptions()
	opts.Origin = p.Origin
	opts.BucketWidth = p.BucketWidth
	opts.Markers = res.Markers
	if len(os.Args) > 1 {
		opts.Theme = os.Args[1]
	}

	chartPath, err := charts.RenderOHLC(res.Bars, opts)
	if err != nil {
		fmt.Printf("Error generating chart: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Chart generated successfully: %s\n", chartPath)
	fmt.Println("Open the file to see the result!")
}
