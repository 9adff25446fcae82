package view

import "github.com/rsilvagit/resumatch/internal/model"

// MaxSkills is how many extracted skills a match row lists.
const MaxSkills = 5

// TopSkills returns the first MaxSkills skills of set, categories in the
// order languages, frameworks, databases, cloud platforms, tools.
func TopSkills(set *model.SkillSet) []string {
	all := set.All()
	if len(all) > MaxSkills {
		all = all[:MaxSkills]
	}
	return all
}

// Chips splits skills into the first n to display and the count of the
// rest, shown as "+N".
func Chips(skills []string, n int) (shown []string, more int) {
	if n < 0 {
		n = 0
	}
	if len(skills) <= n {
		return skills, 0
	}
	return skills[:n], len(skills) - n
}
