package testutil

// RecordingConfirmer answers every prompt with Answer and records the prompts.
type RecordingConfirmer struct {
	Answer  bool
	Prompts []string
}

func (c *RecordingConfirmer) Confirm(prompt string) bool {
	c.Prompts = append(c.Prompts, prompt)
	return c.Answer
}
