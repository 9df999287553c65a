// Package dictionary serves the static article catalogue.
package dictionary

import "strings"

// Article is one catalogue entry. Tag is a comma separated list whose first
// element is the article id.
type Article struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// Tags splits Tag into its elements
func (a Article) Tags() []string {
	if a.Tag == "" {
		return nil
	}
	return strings.Split(a.Tag, ",")
}

var articles = []Article{
	{"Generating all subsets using basic Combinatorial Patterns", "1,Combinatorics,Programming,Artificial Intelligence"},
	{"Uninformed search in Artificial Intelligence", "2,Search,Programming,Artificial Intelligence"},
	{"Encoding logic in Artificial Intelligence", "3,Logic,Knowledge,Programming,Artificial Intelligence"},
	{"Encoding logic in Artificial Intelligence using Theorem Proving", "4,Logic,Knowledge,Programming,Artificial Intelligence"},
	{"Lexicographic permutation generation", "14,Combinatorics,Algorithms,Python,Permutations,Lexicographic"},
	{"PE", "0,PE"},
	{"Is it?", "5,Poetry,Consciousness,Mind,Artificial Intelligence"},
	{"0x1: A Godless world or not?", "21,God,Worlds,FreeWill,Essay,Consciousness"},
	{"What am I?", "18,Consciousness,Poetry,Unconsciousness"},
	{"0x2: Unknown", "19,Consciousness,Essay,God,FreeWill,Simulation"},
	{"0x2: Not Not Single", "20,Consciousness,Essay,God,FreeWill,Simulation"},
	{"The Real", "6,Poetry,Consciousness,Imagination"},
	{"Could a meme make mind?", "7,Consciousness,Poetry,Artificial Intelligence,Memes,Richard Dawkins"},
	{"F**k red & blue. I want the green pill", "8,Poetry,Love,Consciousness"},
	{"The Prison", "9,Poetry,Consciousness,Escape,Mind"},
	{"The Hidden World", "10,Poetry,Consciousness,Imagination"},
	{"Love and The Universe", "11,Love,Poetry,Consciousness,Imagination"},
	{"The City", "12,Artificial Intelligence,Dreams,Mind,Consciousness,Imagination"},
	{"The Universe Within", "13,Imagination,Consciousness,Poetry"},
	{"Save Yourselves", "15,Poetry,Consciousness,Imagination"},
	{"The RTC", "16,Poetry,Imagination,Consciousness,Unknown"},
	{"Unexplored light", "17,Poetry,Otherworlds,Minds,Consciousness,TheoryOfMind"},
}

// Dictionary is a read-only article store
type Dictionary struct{}

// New creates a dictionary
func New() *Dictionary {
	return &Dictionary{}
}

// GetArticles returns a copy of every article
func (d *Dictionary) GetArticles() []Article {
	return append([]Article(nil), articles...)
}

// GetAbout returns the about page placeholder
func (d *Dictionary) GetAbout() []Article {
	return placeholder("About")
}

// GetProjects returns the projects page placeholder
func (d *Dictionary) GetProjects() []Article {
	return placeholder("Project")
}

// GetArticle returns the article page placeholder
func (d *Dictionary) GetArticle() []Article {
	return placeholder("Article")
}

func placeholder(page string) []Article {
	return []Article{{Name: page + " page not implemented yet! Stay tuned.", Tag: "None"}}
}
