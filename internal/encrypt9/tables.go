package encrypt9

// The $9$ scheme works over a fixed 65-character alphabet split into four
// "families". A character's family determines how many random characters
// must follow the salt, and the alphabet ordering drives the chained gap
// arithmetic.
var families = [4]string{
	"QzF3n6/9CAtpu0O",
	"B1IREhcSyrleKvMW8LXx",
	"7N-dVbwsY2g4oaJZGUDj",
	"iHkq.mPf5T",
}

// alphabet is the ordered concatenation of all four families.
var alphabet string

// alphaNum maps an alphabet character to its index; extraLen maps it to the
// number of random prefix characters its family requires (3 - family).
var (
	alphaNum map[byte]int
	extraLen map[byte]int
)

// encodings holds the seven mixed-radix rows; row selection cycles with the
// output character position.
var encodings = [7][]int{
	{1, 4, 32},
	{1, 16, 32},
	{1, 8, 32},
	{1, 64},
	{1, 32},
	{1, 4, 16, 128},
	{1, 32, 64},
}

func init() {
	alphaNum = make(map[byte]int)
	extraLen = make(map[byte]int)
	for fam, chars := range families {
		for i := 0; i < len(chars); i++ {
			extraLen[chars[i]] = 3 - fam
		}
		alphabet += chars
	}
	for i := 0; i < len(alphabet); i++ {
		alphaNum[alphabet[i]] = i
	}
}

// RandLen returns the required random-prefix length for a salt character,
// and false if the character is not part of the alphabet.
func RandLen(salt byte) (int, bool) {
	n, ok := extraLen[salt]
	return n, ok
}
