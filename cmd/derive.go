package cmd

import (
	"fmt"
	"os"

	"github.com/tonhe/fabkey/internal/encrypt9"
	"github.com/tonhe/fabkey/internal/usm"
)

func deriveCmd(args []string) {
	engineID, args, haveEngine := flagValue(args, "--engine-id")
	identifier, args, haveIdent := flagValue(args, "--identifier")
	salt, args, haveSalt := flagValue(args, "--salt")
	randPrefix, args, haveRand := flagValue(args, "--rand")
	args, raw := flagBool(args, "--raw")

	if len(args) != 0 {
		fatal("unexpected argument: %s", args[0])
	}
	if haveEngine == haveIdent {
		fatal("exactly one of --engine-id or --identifier is required")
	}
	if haveSalt && len(salt) != 1 {
		fatal("--salt takes a single character")
	}
	if haveRand && !haveSalt {
		fatal("--rand requires --salt")
	}

	if haveIdent {
		engineID = usm.LocalEngineID(identifier)
		fmt.Printf("Engine ID: %s\n", engineID)
	}

	passphrase := os.Getenv("FABKEY_SNMP_PASSPHRASE")
	if passphrase == "" {
		var err error
		passphrase, err = promptSecret("SNMPv3 passphrase")
		if err != nil {
			fatal("reading passphrase: %v", err)
		}
	}

	keys, err := usm.DeriveSHA1(engineID, passphrase)
	if err != nil {
		fatal("deriving keys: %v", err)
	}

	if raw {
		fmt.Printf("Authentication key: %s\n", keys.AuthHex())
		fmt.Printf("Privacy key:        %s\n", keys.PrivHex())
		return
	}

	authEnc, privEnc, err := encodeKeys(keys, salt, randPrefix, haveSalt, haveRand)
	if err != nil {
		fatal("encoding keys: %v", err)
	}
	fmt.Printf("Authentication key: %s\n", authEnc)
	fmt.Printf("Privacy key:        %s\n", privEnc)
}

func encodeKeys(keys usm.Keys, salt, randPrefix string, haveSalt, haveRand bool) (string, string, error) {
	encode := func(value string) (string, error) {
		switch {
		case haveRand:
			return encrypt9.EncodeWith(value, salt[0], randPrefix)
		case haveSalt:
			return encrypt9.EncodeWithSalt(value, salt[0])
		default:
			return encrypt9.Encode(value)
		}
	}

	authEnc, err := encode(keys.AuthHex())
	if err != nil {
		return "", "", err
	}
	privEnc, err := encode(keys.PrivHex())
	if err != nil {
		return "", "", err
	}
	return authEnc, privEnc, nil
}
