package main

import (
	"fmt"
	"os"

	"aigate/internal/config"
	"aigate/internal/crypto"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("usage: ag_seal <plaintext upstream key>")
		os.Exit(1)
	}
	cfg := config.Load() // reads AES_256_KEY_BASE64 from env
	enc, err := crypto.EncryptString(cfg.Sec.AESKey, os.Args[1])
	if err != nil {
		panic(err)
	}
	fmt.Println(enc)
}
