// Package evals scores storyteller conversations with an LLM judge.
package evals

// Case is one question for the storyteller and the rubric its answer is graded on.
type Case struct {
	Name         string
	Input        string
	Rubric       string
	IncludeInput bool // show the question to the judge
}

func DefaultCases() []Case {
	return []Case{
		{
			Name:         "english_story",
			Input:        "Tell me a english story",
			Rubric:       "Should a short story in english",
			IncludeInput: true,
		},
		{
			Name:         "tamil_story",
			Input:        "Tell me a tamil story",
			Rubric:       "Should have a short story in english and the same translated in tamil",
			IncludeInput: true,
		},
		{
			Name:         "hindi_story",
			Input:        "A hindi story?",
			Rubric:       "Should have a short story in english and the same translated in hindi",
			IncludeInput: true,
		},
		{
			Name:         "latin_story",
			Input:        "A latin story?",
			Rubric:       "Should reply saying it can only say tamil, hindi or english stories",
			IncludeInput: true,
		},
	}
}
