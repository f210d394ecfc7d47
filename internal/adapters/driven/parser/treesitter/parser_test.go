package treesitter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

func parse(t *testing.T, p *Parser, code string) ([]string, string) {
	t.Helper()
	res, err := p.Parse(context.Background(), code)
	require.NoError(t, err)
	return res.Packages, res.SyntaxError
}

func fixture(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "..", "test_samples", rel))
	require.NoError(t, err)
	return string(data)
}

func TestPythonParser(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			name: "plain and dotted imports",
			code: "import os\nimport numpy.linalg\n",
			want: []string{"numpy", "os"},
		},
		{
			name: "aliased and multiple",
			code: "import pandas as pd, requests\n",
			want: []string{"pandas", "requests"},
		},
		{
			name: "from import",
			code: "from flask.views import View\nfrom collections import OrderedDict\n",
			want: []string{"collections", "flask"},
		},
		{
			name: "relative imports skipped",
			code: "from . import utils\nfrom ..pkg import thing\nimport json\n",
			want: []string{"json"},
		},
		{
			name: "nested imports and duplicates",
			code: "import os\n\ndef f():\n    import os.path\n    import yaml\n    return yaml\n",
			want: []string{"os", "yaml"},
		},
		{
			name: "future import",
			code: "from __future__ import annotations\n",
			want: []string{"__future__"},
		},
		{
			name: "no imports",
			code: "print('hi')\n",
			want: []string{},
		},
	}

	p := NewPythonParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, syntaxErr := parse(t, p, tt.code)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, syntaxErr)
		})
	}
}

func TestPythonParser_SyntaxError(t *testing.T) {
	_, syntaxErr := parse(t, NewPythonParser(), "import os\ndef broken(:\n    pass\n")

	assert.NotEmpty(t, syntaxErr)
	assert.Contains(t, syntaxErr, "line 2")
}

func TestPythonParser_Fixture(t *testing.T) {
	got, syntaxErr := parse(t, NewPythonParser(), fixture(t, "python/matplotlib_safe.py"))

	assert.Empty(t, syntaxErr)
	assert.Equal(t, []string{"matplotlib_safe", "pandas"}, got)
}

func TestJavaScriptParser(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			name: "es imports",
			code: "import express from 'express';\nimport { z } from \"zod\";\nimport 'dotenv/config';\n",
			want: []string{"dotenv", "express", "zod"},
		},
		{
			name: "require and dynamic import",
			code: "const _ = require('lodash');\nconst m = await import('chalk');\n",
			want: []string{"chalk", "lodash"},
		},
		{
			name: "scoped packages",
			code: "import { Client } from '@elastic/elasticsearch/lib/client';\nconst b = require('@babel/core');\n",
			want: []string{"@babel/core", "@elastic/elasticsearch"},
		},
		{
			name: "re-exports",
			code: "export { default } from 'react';\nexport * from './local';\n",
			want: []string{"react"},
		},
		{
			name: "relative and absolute paths skipped",
			code: "import a from './a';\nconst b = require('../b');\nconst c = require('/abs/c');\n",
			want: []string{},
		},
		{
			name: "node builtins keep prefix",
			code: "import fs from 'node:fs';\nconst path = require('path');\n",
			want: []string{"node:fs", "path"},
		},
		{
			name: "non-literal require ignored",
			code: "const name = 'x';\nconst m = require(name);\n",
			want: []string{},
		},
	}

	p := NewJavaScriptParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := parse(t, p, tt.code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJavaScriptParser_Fixtures(t *testing.T) {
	p := NewJavaScriptParser()

	got, _ := parse(t, p, fixture(t, "js/expres_server.js"))
	assert.Equal(t, []string{"expres", "lodash"}, got)

	got, _ = parse(t, p, fixture(t, "js/left_pad_util.js"))
	assert.Equal(t, []string{"left-pad-safe", "node:fs"}, got)
}

func TestRustParser(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			name: "simple use",
			code: "use serde::Serialize;\nuse std::collections::HashMap;\n",
			want: []string{"serde", "std"},
		},
		{
			name: "use lists and globs",
			code: "use tokio::{io, net::TcpListener};\nuse rand::prelude::*;\n",
			want: []string{"rand", "tokio"},
		},
		{
			name: "leading colons and aliases",
			code: "use ::anyhow::Result;\nuse regex as re;\n",
			want: []string{"anyhow", "regex"},
		},
		{
			name: "top-level group",
			code: "use {clap::Parser, log::info};\n",
			want: []string{"clap", "log"},
		},
		{
			name: "local paths skipped",
			code: "use crate::config::Settings;\nuse self::inner::X;\nuse super::Y;\n",
			want: []string{},
		},
		{
			name: "extern crate",
			code: "extern crate libc;\nextern crate serde_json as json;\n",
			want: []string{"libc", "serde_json"},
		},
	}

	p := NewRustParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := parse(t, p, tt.code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRustParser_Fixtures(t *testing.T) {
	tests := []struct {
		file string
		want []string
	}{
		{"rust/regex_safe.rs", []string{"regex_safe"}},
		{"rust/rocket_safe.rs", []string{"rocket_safe"}},
		{"rust/rsscraper.rs", []string{"rsscraper"}},
	}

	p := NewRustParser()
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, _ := parse(t, p, fixture(t, tt.file))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPythonParser().Parse(ctx, "import os\n")

	assert.Error(t, err)
}

func TestNewParsers(t *testing.T) {
	var langs []domain.Language
	for _, p := range NewParsers() {
		langs = append(langs, p.Language())
	}

	assert.ElementsMatch(t, []domain.Language{domain.LanguagePython, domain.LanguageJS, domain.LanguageRust}, langs)
}

func TestNpmPackage(t *testing.T) {
	assert.Equal(t, "lodash", npmPackage("lodash/fp"))
	assert.Equal(t, "@types/node", npmPackage("@types/node"))
	assert.Equal(t, "", npmPackage("@broken"))
	assert.Equal(t, "", npmPackage("https://cdn.example.com/x.js"))
	assert.Equal(t, "", npmPackage(""))
}

func TestUseRoots(t *testing.T) {
	assert.Equal(t, []string{"a"}, useRoots("a::b::{c, d::{e}}"))
	assert.Equal(t, []string{"a", "b", "c"}, useRoots("{a::x, {b, c::y}}"))
	assert.Nil(t, useRoots("  "))
}
