// internal/narrative/prompts.go
package narrative

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mwiater/syndeo/internal/puzzle"
)

// categoryTypes is the connection taxonomy embedded in full-puzzle
// prompts. The surrounding newlines land inside the START sentence.
const categoryTypes = `
1. Semantic Taxonomy - types of X, parts of Y, members of category
2. Semantic Synonymy - words with similar meanings
3. Semantic Association - items linked by shared scenario/function
4. Named Entities - proper names (people, places, brands, titles)
5. Collocational/Idiomatic - fill slots in phrases (___X, Y___)
6. Lexical Morphology - shared affixes, compounds, word formation
7. Lexical Orthography - letter patterns (palindromes, anagrams, etc)
8. Phonological Pattern - sound patterns (rhymes, homophones)
9. Grammatical/Syntactic - same part of speech or function
10. Wordplay Double Meaning - polysemy, multiple senses
11. Temporal/Sequential - ordered series
12. Numerical/Quantitative - numbers, counts, measurements
13. Lexical Etymology - shared language origin
14. Sociolinguistic Register - slang, dialect, jargon
15. Cross-Linguistic - translations across languages
`

// categoryTypesInline is the same taxonomy as a single line, used by the
// warm-up pattern prompts.
const categoryTypesInline = "Semantic Taxonomy, Semantic Synonymy, Semantic Association, Named Entities, Collocational/Idiomatic, Lexical Morphology, Lexical Orthography, Phonological Pattern, Grammatical/Syntactic, Wordplay Double Meaning, Temporal/Sequential, Numerical/Quantitative, Lexical Etymology, Sociolinguistic Register, Cross-Linguistic"

const structuredGoldExample = `Looking at these 16 words: "TRACTOR", "OUTSTANDING", "COLOSSUS", "MAUSOLEUM", "PYRAMIDS", "SUPERB", "FELLOWSHIP", "TWO TOWERS", "RETURN", "LORD", "EXCELLENT", "PLOW", "LIGHTHOUSE", "COMBINE", "TERRIFIC", "HARROW".
I'll systematically check different connection types from this list:
Semantic Taxonomy - types of X, parts of Y, members of category
Semantic Synonymy - words with similar meanings
Semantic Association - items linked by shared scenario/function
Named Entities - proper names (people, places, brands, titles)
Collocational/Idiomatic - fill slots in phrases (X, Y)
Lexical Morphology - shared affixes, compounds, word formation
Lexical Orthography - letter patterns (palindromes, anagrams, etc)
Phonological Pattern - sound patterns (rhymes, homophones)
Grammatical/Syntactic - same part of speech or function
Wordplay Double Meaning - polysemy, multiple senses
Temporal/Sequential - ordered series
Numerical/Quantitative - numbers, counts, measurements
Lexical Etymology - shared language origin
Sociolinguistic Register - slang, dialect, jargon
Cross-Linguistic - translations across languages

Now, looking at the words: "TRACTOR", "OUTSTANDING", "COLOSSUS", "MAUSOLEUM", "PYRAMIDS", "SUPERB", "FELLOWSHIP", "TWO TOWERS", "RETURN", "LORD", "EXCELLENT", "PLOW", "LIGHTHOUSE", "COMBINE", "TERRIFIC", "HARROW"
Let me identify the first group. I see "EXCELLENT", "OUTSTANDING", "SUPERB", "TERRIFIC" - these are clearly Category 2: Semantic Synonymy - words with similar meanings, all expressing high quality or excellence.
Group 1: EXCELLENT, OUTSTANDING, SUPERB, TERRIFIC (Semantic Synonymy)
Remaining categories most likely to be relevant: Semantic Taxonomy, Named Entities, Semantic Association, Collocational/Idiomatic
Looking at what's left, I notice "COLOSSUS", "MAUSOLEUM", "PYRAMIDS", "LIGHTHOUSE" - these are all Category 1: Semantic Taxonomy - specifically, they're all members of the category "Seven Wonders of the Ancient World" (Colossus of Rhodes, Mausoleum at Halicarnassus, Pyramids of Giza, Lighthouse of Alexandria).
Group 2: COLOSSUS, MAUSOLEUM, PYRAMIDS, LIGHTHOUSE (Semantic Taxonomy - Wonders of the Ancient World)
Remaining categories most likely: Named Entities, Semantic Association, Collocational/Idiomatic
Now I see "TRACTOR", "PLOW", "COMBINE", "HARROW" - these fall under Category 3: Semantic Association - items linked by shared function/scenario, specifically farm equipment used in agriculture.
Group 3: TRACTOR, PLOW, COMBINE, HARROW (Semantic Association - farm equipment)
Remaining category most likely: Named Entities
Finally, "FELLOWSHIP", "TWO TOWERS", "RETURN", "LORD" - these are Category 4: Named Entities - they're all parts of titles from the Lord of the Rings series: "The Fellowship (of the Ring)", "The Two Towers", "The Return (of the King)", and "The Lord (of the Rings)".
Group 4: FELLOWSHIP, TWO TOWERS, RETURN, LORD (Named Entities - Lord of the Rings titles)
Final Answer:

EXCELLENT, OUTSTANDING, SUPERB, TERRIFIC - Semantic Synonymy (words meaning "very good")
COLOSSUS, MAUSOLEUM, PYRAMIDS, LIGHTHOUSE - Semantic Taxonomy (Ancient Wonders)
TRACTOR, PLOW, COMBINE, HARROW - Semantic Association (farm equipment)
FELLOWSHIP, TWO TOWERS, RETURN, LORD - Named Entities (Lord of the Rings titles)`

const structuredPromptTmpl = `Solve this Connections puzzle by finding 4 groups of 4 related words:
Words: %[1]s

The correct groups are:
%[2]s

Your task: Write a structured problem-solving narrative using systematic category checking.

START with: "Looking at these 16 words: %[1]s. I'll systematically check different connection types from this list: %[3]s."

SOLVING FRAMEWORK - Work through categories methodically:

PHASE 1: Quick Visual Scan
"First, let me do a quick scan for obvious patterns..."
- Note any immediate standouts (proper names, numbers, obvious sets)
- Identify potential easy groups

PHASE 2: Systematic Category Checking
List and then work through relevant category types

For each promising category, show your thinking:
"Let me check for [Category Type]..."
"I see [WORD1], [WORD2], [WORD3], [WORD4] - these could be [specific connection]"
"Testing: [WORD1] is [explanation], [WORD2] is [explanation]..."
"Yes, these are all [category]" OR "Actually, [WORD] doesn't fit because..."

PHASE 3: Progressive Narrowing
After finding each group:
"Group found: [CATEGORY]. That leaves me with these 12/8/4 words: [list remaining]"
"With those removed, I can now see..."
"The pattern becomes clearer..."
Relist the promising categories and continue until Phase 4

PHASE 4: Final Group by Elimination
"With only 4 words left: [WORDS]"
"These must be connected by..."
"Let me verify: [explanation of connection]"

KEY SOLVING BEHAVIORS:
- State hypothesis before testing: "Could these be types of...?"
- Show verification: "Let me check: X means..., Y is..."
- Express uncertainty: "Hmm, not sure if..." "Wait, maybe..."
- Backtrack when wrong: "Actually, that doesn't work..."
- Use process of elimination: "Since X, Y, Z are gone..."
- Count remaining words after each group

CONCLUDE with:
"So my four groups are:"

%[4]s

**CRITICAL: Write as if discovering patterns yourself through systematic checking, never mention being given answers. DON'T WRITE THE PHASE NAMES AND INCLUDE THE FULL CATEGORY LIST**

Here is a gold standard example for you to emulate:
` + structuredGoldExample

const unstructuredExample = `Alright, let me look at these 16 words and find the four groups...
First scan - COMBINE, HARROW, PLOW, TRACTOR... These all sound like farming equipment to me. Yeah, COMBINE is a harvesting machine, HARROW breaks up soil, PLOW turns over the earth, and TRACTOR pulls everything. That's definitely farm machinery.
Now, EXCELLENT, OUTSTANDING, SUPERB, TERRIFIC - these are easy! They're all synonyms meaning "great" or "very good." That's a clear group.
Let me see... COLOSSUS, LIGHTHOUSE, MAUSOLEUM, PYRAMIDS. Hmm, what do these have in common? They're all... structures? Wait, I think I know - aren't these all Wonders of the Ancient World? Let me think... Colossus of Rhodes, Lighthouse of Alexandria, Mausoleum at Halicarnassus, and the Great Pyramids of Giza. Yes! That's it!
So that leaves FELLOWSHIP, LORD, RETURN, TWO TOWERS. Oh, this is clever! These are Lord of the Rings movies! "The Fellowship of the Ring," "The Two Towers," and "The Return of the King." But wait... "LORD" by itself? Oh! It must be referring to the title words - "The LORD of the Rings" is in all the movie titles.
Actually, wait. Let me reconsider. FELLOWSHIP, TWO TOWERS, RETURN... these could be the shortened names of the three Lord of the Rings movies. But then what about LORD? Hmm...
Oh! I think I've been overthinking it. These might just be the key words from the Lord of the Rings trilogy titles:

The FELLOWSHIP of the Ring
The TWO TOWERS
The RETURN of the King
And LORD from "Lord of the Rings"

So my four groups are:
FARM EQUIPMENT: COMBINE, HARROW, PLOW, TRACTOR
SYNONYMS FOR EXCELLENT: EXCELLENT, OUTSTANDING, SUPERB, TERRIFIC
ANCIENT WONDERS OF THE WORLD: COLOSSUS, LIGHTHOUSE, MAUSOLEUM, PYRAMIDS
LORD OF THE RINGS REFERENCES: FELLOWSHIP, LORD, RETURN, TWO TOWERS
`

const unstructuredPromptTmpl = `Solve this Connections puzzle by finding 4 groups of 4 related words:
Words: %[1]s

The correct groups are:
%[2]s

Your task: Write a natural problem-solving narrative as if you're exploring and discovering these groups yourself.

START your response with: "Looking at these 16 words: %[1]s. "

Pretend you're a person vocalizing their thought process through the puzzle:
- Initial cursory scanning and thinking
- Noticing the first pattern (usually the easiest group)
- Testing connections (having some fail but some successful)
- Counting remaining words after each group found (12 left, 8 left, 4 left)
- Having "aha!" or "wait..." moments when spotting connections
- Sometimes second-guessing before reasoning it through and confirming and/or dismissing
- Natural phrases like "let me check", "that leaves me with", "these could be"

Write the FULL solving process showing how you work through the puzzle step by step.

ONLY AFTER your complete reasoning, conclude with:
"So my four groups are:"

Then list each group as:
%[3]s

**DO NOT MENTION OR ALLUDE TO ANY HINTS/ANSWER BEING SHOWN PRETEND AS IF YOU ARE FIGURING IT OUT YOURSELF**

Here's an example:
` + unstructuredExample

const oddOutExample = `Looking at these 5 words: GARDEN, STAR, FACE, SALT, STRATUS. I'll check which category connects 4 of them.

Category types: ` + categoryTypesInline + `

I notice GARDEN, STAR, FACE, and SALT could follow a pattern. Checking Collocational/Idiomatic - can these complete a phrase? Yes, they all work as "rock___" compounds: rock GARDEN, rock STAR, rock FACE, rock SALT.

STRATUS doesn't fit this pattern - it's a cloud type, not a "rock___" compound.

Therefore, the odd word out is: STRATUS`

const oddOutPromptTmpl = `Solve this word puzzle by finding the odd word out:
Words: %[1]s

The correct answer is: %[2]s
Pattern explanation: %[3]s

Your task: Write a concise problem-solving narrative using category analysis.

START with: "Looking at these %[4]d words: %[1]s. I'll check which category connects 4 of them."

APPROACH:
1. List the category types: ` + categoryTypesInline + `
2. Identify which category type connects 4 words and name the specific pattern
3. Note which word doesn't fit

CONCLUDE with: "Therefore, the odd word out is: %[2]s"

Example:
` + oddOutExample

const fiveTwoExample = `Looking at these 7 words: SUPPLEMENTARY, REFLEX, COMPUTER, ADJACENT, RIGHT, ACUTE, SONIC. I need to find the main group of 5 and identify the 2 that don't fit.

Category types: ` + categoryTypesInline + `

I notice SUPPLEMENTARY, REFLEX, ADJACENT, RIGHT, ACUTE - these could be types of angles. Checking Semantic Taxonomy: SUPPLEMENTARY angle (180 degrees), REFLEX angle (greater than 180), ADJACENT angles (next to each other), RIGHT angle (90 degrees), ACUTE angle (less than 90 degrees). Yes, 5 words are angle-related terms.

That leaves COMPUTER and SONIC. What do these share? Checking Collocational/Idiomatic - they both work with the prefix "super___": SUPERCOMPUTER and SUPERSONIC. These 2 words form a "super___" prefix pattern.

Therefore, the odd words out are: COMPUTER, SONIC`

const sevenThreeExample = `Looking at these 10 words: ARES, ATHENA, HADES, ZEUS, PILLOW, APHRODITE, BOTTLE, HERA, SUMMER, APOLLO. I need to find the main group of 7 and identify the 3 that don't fit.

Category types: ` + categoryTypesInline + `

I notice ARES, ATHENA, HADES, ZEUS, APHRODITE, HERA, APOLLO - these are all Greek gods. Checking Named Entities: ARES (god of war), ATHENA (goddess of wisdom), HADES (god of underworld), ZEUS (king of gods), APHRODITE (goddess of love), HERA (queen of gods), APOLLO (god of sun). Yes, 7 words are Greek deities.

That leaves PILLOW, BOTTLE, SUMMER. What do these share? Checking Lexical Orthography - they all contain double consonants: PILLOW (LL), BOTTLE (TT), SUMMER (MM). These 3 words share a double consonant pattern.

Therefore, the odd words out are: BOTTLE, PILLOW, SUMMER`

const mainMinorPromptTmpl = `Solve this word puzzle by finding the odd words out:
Words: %[1]s

The correct answer is: %[2]s
Pattern explanation: %[3]s

Your task: Write a concise problem-solving narrative using category analysis.

START with: "Looking at these %[4]d words: %[1]s. I need to find the main group of %[5]d and identify the %[6]d that don't fit."

APPROACH:
1. List the category types: ` + categoryTypesInline + `
2. Identify which category connects the main group of %[5]d words and name the specific pattern
3. Identify what pattern the %[6]d outliers share (they form a smaller group)

CONCLUDE with: "Therefore, the odd words out are: %[2]s"

Example:
%[7]s`

const groupsExample = `Looking at these 12 words: OJI, SOFU, TITUS, MARACAS, HAHA, ANI, ITOKO, CHICHI, BONGO, KAZOKU, SOBO, RICHARD. I need to identify 3 distinct groups.

Category types: ` + categoryTypesInline + `

I notice OJI, SOFU, HAHA, ANI, ITOKO, CHICHI, KAZOKU, SOBO - these look like Japanese words. Checking Cross-Linguistic: these are family members in Japanese. That's 8 words in group 1.

Remaining: TITUS, MARACAS, BONGO, RICHARD. I see TITUS and RICHARD - these could be Shakespeare plays. Checking Named Entities: "Titus Andronicus" and "Richard III" are Shakespeare plays. That's 2 words in group 2.

That leaves MARACAS and BONGO. Checking Semantic Taxonomy: both are percussion instruments. That's 2 words in group 3.

Group 1: family in japanese (OJI, SOFU, HAHA, ANI, ITOKO, CHICHI, KAZOKU, SOBO)
Group 2: shakespeare plays (TITUS, RICHARD)
Group 3: percussion instruments (MARACAS, BONGO)`

const groupsPromptTmpl = `Solve this word puzzle by identifying %[4]d word groups and their themes:
Words: %[1]s

The correct groups are:
%[2]s

Your task: Write a concise problem-solving narrative using category analysis.

START with: "Looking at these %[3]d words: %[1]s. I need to identify %[4]d distinct groups."

APPROACH:
1. List the category types: ` + categoryTypesInline + `
2. Scan words and identify first group - which category type and specific pattern
3. Remove those words, identify second group - category type and pattern
4. Identify third group from remaining words
5. State all %[4]d groups clearly with their themes

CONCLUDE with all %[4]d groups and their themes based on the explanation format.

Example:
` + groupsExample

// FullPuzzleUserMessage is the user turn stored alongside a full-puzzle
// narrative. It never reveals the groups.
func FullPuzzleUserMessage(words []string) string {
	return "Solve this Connections puzzle by finding 4 groups of 4 related words:\nWords: " + strings.Join(words, ", ")
}

// StructuredPrompt builds the taxonomy-guided solver prompt for a full
// puzzle. The narrator sees the answers; the stored user message does not.
func StructuredPrompt(words []string, groups []puzzle.Group) string {
	ordered := sortedByLevel(groups)
	return fmt.Sprintf(structuredPromptTmpl,
		strings.Join(words, ", "),
		answerLines(ordered),
		categoryTypes,
		concludeBlock(ordered))
}

// UnstructuredPrompt builds the free-narrative solver prompt for a full
// puzzle.
func UnstructuredPrompt(words []string, groups []puzzle.Group) string {
	ordered := sortedByLevel(groups)
	return fmt.Sprintf(unstructuredPromptTmpl,
		strings.Join(words, ", "),
		answerLines(ordered),
		concludeBlock(ordered))
}

// PatternPrompt builds the narrative prompt for one warm-up example,
// dispatching on its pattern shape. The second return is false when the
// pattern is unknown or the example carries no usable answer.
func PatternPrompt(ex puzzle.PatternExample) (string, bool) {
	words := strings.Join(ex.Words, ", ")

	switch ex.Pattern {
	case "4:1":
		odd := oddWordsOut(ex)
		if len(odd) == 0 {
			return "", false
		}
		return fmt.Sprintf(oddOutPromptTmpl, words, odd[0], ex.Explanation, len(ex.Words)), true
	case "5:2", "7:3":
		odd := oddWordsOut(ex)
		if len(odd) == 0 {
			return "", false
		}
		sort.Strings(odd)
		example := fiveTwoExample
		if ex.Pattern == "7:3" {
			example = sevenThreeExample
		}
		return fmt.Sprintf(mainMinorPromptTmpl,
			words,
			strings.Join(odd, ", "),
			ex.Explanation,
			len(ex.Words),
			len(ex.Words)-len(odd),
			len(odd),
			example), true
	case "8:2:2", "10:3:3":
		return fmt.Sprintf(groupsPromptTmpl, words, ex.Explanation, len(ex.Words), 3), true
	}
	return "", false
}

// oddWordsOut collects the words marked as outliers, in board order.
func oddWordsOut(ex puzzle.PatternExample) []string {
	if len(ex.TargetScores) != len(ex.Words) {
		return nil
	}
	var odd []string
	for i, score := range ex.TargetScores {
		if score == 1 {
			odd = append(odd, ex.Words[i])
		}
	}
	return odd
}

func sortedByLevel(groups []puzzle.Group) []puzzle.Group {
	ordered := make([]puzzle.Group, len(groups))
	copy(ordered, groups)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Level < ordered[j].Level })
	return ordered
}

func sortedMembers(g puzzle.Group) string {
	members := make([]string, len(g.Members))
	copy(members, g.Members)
	sort.Strings(members)
	return strings.Join(members, ", ")
}

// answerLines renders the "correct groups" hint block, one group per line.
func answerLines(groups []puzzle.Group) string {
	lines := make([]string, len(groups))
	for i, g := range groups {
		lines[i] = fmt.Sprintf("%s: %s", g.Label, sortedMembers(g))
	}
	return strings.Join(lines, "\n")
}

// concludeBlock renders the closing lines the narrator is told to end on.
func concludeBlock(groups []puzzle.Group) string {
	lines := make([]string, len(groups))
	for i, g := range groups {
		lines[i] = fmt.Sprintf("**%s**: %s", strings.ToUpper(g.Label), sortedMembers(g))
	}
	return strings.Join(lines, "\n")
}
