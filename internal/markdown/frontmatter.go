package markdown

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// frontMatterPattern matches a header block that starts at offset zero with a
// "---" marker line and ends at the first following "\n---". The block must
// contain at least one character.
var frontMatterPattern = regexp.MustCompile(`\A---\n((?s).+?)\n---`)

const (
	lineSeparator  = "\n"
	pairSeparator  = ":"
	minPairSegment = 2
)

// ExtractMetadata parses the front matter header of a post into a key/value
// mapping. Content without a header, or with a malformed one, yields an empty
// (non-nil) mapping. When a key repeats, the last occurrence wins.
func ExtractMetadata(content string) interfaces.Metadata {
	metadata := interfaces.Metadata{}

	match := frontMatterPattern.FindStringSubmatch(content)
	if match == nil {
		return metadata
	}

	for _, line := range strings.Split(match[1], lineSeparator) {
		parts := strings.Split(line, pairSeparator)
		if len(parts) < minPairSegment {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(strings.Join(parts[1:], pairSeparator))
		metadata[key] = value
	}

	return metadata
}

// StripFrontMatter removes the header block (same marker rule as
// ExtractMetadata) and trims surrounding whitespace from what remains.
func StripFrontMatter(content string) string {
	loc := frontMatterPattern.FindStringIndex(content)
	if loc != nil {
		content = content[loc[1]:]
	}
	return strings.TrimSpace(content)
}

// HasFrontMatter reports whether content starts with a well-formed header.
func HasFrontMatter(content string) bool {
	return frontMatterPattern.MatchString(content)
}
