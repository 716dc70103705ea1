// Package mention extracts @handles from comment text and resolves them
// against the directory of mentionable users.
package mention

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a raw @handle found in text. Start and End are byte offsets of the
// whole token including the leading '@'.
type Token struct {
	Handle string
	Start  int
	End    int
}

// Entry is a mentionable user.
type Entry struct {
	Email string
	Name  string
}

// Mention is a token resolved to a directory entry.
type Mention struct {
	Token
	User Entry
}

// Result holds resolved mentions, de-duplicated recipients and tokens that
// matched nobody.
type Result struct {
	Mentions   []Mention
	Recipients []Entry
	Unresolved []Token
}

// Tokenize returns every @handle in text. A handle starts after '@' when the
// '@' opens the text or follows a non-word character, continues over word
// characters, '.' and '-', and drops trailing punctuation.
func Tokenize(text string) []Token {
	var tokens []Token
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r != '@' || (i > 0 && isWord(lastRune(text[:i]))) {
			i += size
			continue
		}
		j := i + size
		for j < len(text) {
			c, n := utf8.DecodeRuneInString(text[j:])
			if !isWord(c) && c != '.' && c != '-' {
				break
			}
			j += n
		}
		end := j
		for end > i+size && (text[end-1] == '.' || text[end-1] == '-') {
			end--
		}
		if end > i+size {
			tokens = append(tokens, Token{Handle: text[i+size : end], Start: i, End: end})
		}
		i = j
	}
	return tokens
}

// Resolve finds the directory entry for handle. Matching is case-insensitive
// and ranked: email local part, then full name with separators removed, then
// name prefix. Within a rank the first entry in directory order wins.
func Resolve(handle string, directory []Entry) (Entry, bool) {
	h := strings.ToLower(handle)
	if h == "" {
		return Entry{}, false
	}
	for _, entry := range directory {
		if strings.ToLower(localPart(entry.Email)) == h {
			return entry, true
		}
	}
	compact := squash(h)
	for _, entry := range directory {
		if squash(strings.ToLower(entry.Name)) == compact {
			return entry, true
		}
	}
	spaced := strings.NewReplacer(".", " ", "-", " ", "_", " ").Replace(h)
	for _, entry := range directory {
		if entry.Name != "" && strings.HasPrefix(strings.ToLower(entry.Name), spaced) {
			return entry, true
		}
	}
	return Entry{}, false
}

// Parse tokenizes text and resolves every handle.
func Parse(text string, directory []Entry) Result {
	var result Result
	seen := make(map[string]struct{})
	for _, token := range Tokenize(text) {
		entry, ok := Resolve(token.Handle, directory)
		if !ok {
			result.Unresolved = append(result.Unresolved, token)
			continue
		}
		result.Mentions = append(result.Mentions, Mention{Token: token, User: entry})
		key := strings.ToLower(entry.Email)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result.Recipients = append(result.Recipients, entry)
	}
	return result
}

// RecipientEmails flattens recipients to their addresses.
func (r Result) RecipientEmails() []string {
	emails := make([]string, 0, len(r.Recipients))
	for _, entry := range r.Recipients {
		emails = append(emails, entry.Email)
	}
	return emails
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at >= 0 {
		return email[:at]
	}
	return email
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '.' || r == '-' || r == '_' {
			return -1
		}
		return r
	}, s)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}
