package ui

import "embed"

//go:embed templates/*.html content/*.md static/*
var assets embed.FS
