// homeos_hashkey prints the bcrypt hash of an admin key, ready to be used as
// ADMIN_TOKEN_HASH. The key is read from --key or, when absent, from stdin.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SscSPs/homeos_backend/internal/utils"
	flag "github.com/spf13/pflag"
)

func main() {
	key := flag.String("key", "", "Admin key to hash (read from stdin when empty)")
	flag.Parse()

	hash, err := hashKey(*key, os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

// hashKey hashes key, or the first line of in when key is empty.
func hashKey(key string, in io.Reader) (string, error) {
	if key == "" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read key: %w", err)
		}
		key = strings.TrimRight(line, "\r\n")
	}
	if key == "" {
		return "", errors.New("admin key must not be empty")
	}
	return utils.HashPassword(key)
}
