package achievement

// Option applies a configuration option to the Deriver.
type Option func(*Deriver)

// WithTemplates overrides award texts. Missing entries keep their defaults.
func WithTemplates(t Templates) Option {
	return func(d *Deriver) {
		d.templates = t.merge(d.templates)
	}
}
