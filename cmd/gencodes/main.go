// Command gencodes writes gzipped coupon code files, one code per line.
//
//	gencodes -dir data/coupons -file spring.gz SPRING10 FRIENDS10
//	gencodes -dir data/coupons -file promo.gz -random 100000
package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

func main() {
	dir := flag.String("dir", "data/coupons", "directory the code file is written to")
	file := flag.String("file", "spring.gz", "code file name")
	random := flag.Int("random", 0, "number of random codes to add")
	flag.Parse()

	codes := flag.Args()
	if len(codes) == 0 && *random == 0 {
		codes = []string{"SPRING10", "SPRING-FRIENDS", "WELCOME10"}
	}
	for i := 0; i < *random; i++ {
		codes = append(codes, randomCode())
	}

	path := filepath.Join(*dir, *file)
	if err := writeCodes(path, codes); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created %s with %d codes\n", path, len(codes))
}

// randomCode returns a 10 character upper-case code.
func randomCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func writeCodes(path string, codes []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	for _, code := range codes {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", code); err != nil {
			return fmt.Errorf("failed to write code: %w", err)
		}
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush code file: %w", err)
	}
	return file.Close()
}
