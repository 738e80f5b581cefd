// Package config provides configuration structures and utilities for spngbench.
// It defines where the results manifest and images live, how the benchmark
// is generated and how reports are written.
package config
