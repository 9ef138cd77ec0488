package core

// Transformer mutates a Conversation in place.
type Transformer interface {
	Transform(c *Conversation) error
}

// Chain applies transformers in order, stopping at the first error.
func Chain(c *Conversation, transformers ...Transformer) error {
	for _, tr := range transformers {
		if tr == nil {
			continue
		}
		if err := tr.Transform(c); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep-enough copy of c that transformers can mutate without
// touching the original message slice, function-call arguments, or outputs.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		if m.FunctionCall != nil {
			fc := *m.FunctionCall
			if fc.Arguments != nil {
				args := make(map[string]any, len(fc.Arguments))
				for k, v := range fc.Arguments {
					args[k] = v
				}
				fc.Arguments = args
			}
			m.FunctionCall = &fc
		}
		out.Messages[i] = m
	}
	return &out
}
