package starsprotocol

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// LoadKeywords returns the shared keyword list. A non-empty inline string
// wins and is split on single spaces; otherwise path is read with one
// keyword per line.
func LoadKeywords(inline, path string) ([]string, error) {
	if inline != "" {
		return strings.Split(inline, " "), nil
	}
	if path == "" {
		return nil, newConfigError("no keyword or keyword file configured", nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newConfigError("could not open keyword file", err)
	}
	defer f.Close()

	var keywords []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		keywords = append(keywords, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, newConfigError("could not read keyword file", err)
	}
	if len(keywords) == 0 {
		return nil, newConfigError("keyword file "+path+" is empty", nil)
	}
	return keywords, nil
}

// SelectKeyword picks keywords[challenge mod len(keywords)]. Negative
// challenges wrap around to a valid index.
func SelectKeyword(keywords []string, challenge int64) (string, error) {
	if len(keywords) == 0 {
		return "", newConfigError("keyword list is empty", nil)
	}
	n := int64(len(keywords))
	i := challenge % n
	if i < 0 {
		i += n
	}
	return keywords[i], nil
}

// ParseChallenge reads the decimal challenge number the server sends as
// the first frame of a session.
func ParseChallenge(m Message) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(m.From), 10, 64)
	if err != nil {
		return 0, newProtocolError("challenge is not a number", m.From, err)
	}
	return n, nil
}
