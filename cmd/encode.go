package cmd

import (
	"fmt"

	"github.com/tonhe/fabkey/internal/encrypt9"
)

func encodeCmd(args []string) {
	salt, args, haveSalt := flagValue(args, "--salt")
	randPrefix, args, haveRand := flagValue(args, "--rand")

	if len(args) != 1 {
		fatal("encode takes exactly one value")
	}
	if haveSalt && len(salt) != 1 {
		fatal("--salt takes a single character")
	}
	if haveRand && !haveSalt {
		fatal("--rand requires --salt")
	}

	value := args[0]
	var encoded string
	var err error
	switch {
	case haveRand:
		encoded, err = encrypt9.EncodeWith(value, salt[0], randPrefix)
	case haveSalt:
		encoded, err = encrypt9.EncodeWithSalt(value, salt[0])
	default:
		encoded, err = encrypt9.Encode(value)
	}
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(encoded)
}
