package main

import (
	"context"

	"github.com/maltedev/zoom-price-scraper/cmd/zoomctl/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
