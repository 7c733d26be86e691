package main

import (
	"log/slog"
	"os"

	"github.com/mohazard555/sam-hr1993-sub000/internal/app/server"
)

func main() {
	if err := server.Run(); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
