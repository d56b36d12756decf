package main

import (
	"testing"

	"panelxd/pkg/types"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestFindModel(t *testing.T) {
	models := []types.ModelFile{
		{ID: "tinyllama-q4.gguf", Path: "/models/tinyllama-q4.gguf"},
		{ID: "mistral-7b.gguf", Path: "/models/mistral-7b.gguf"},
	}
	if m, ok := findModel(models, "tinyllama-q4.gguf"); !ok || m.Path != "/models/tinyllama-q4.gguf" {
		t.Fatalf("exact match failed: %v %v", m, ok)
	}
	if m, ok := findModel(models, "mistral-7b"); !ok || m.ID != "mistral-7b.gguf" {
		t.Fatalf("extensionless match failed: %v %v", m, ok)
	}
	if _, ok := findModel(models, "llama3"); ok {
		t.Fatal("unexpected match for unknown model")
	}
}
