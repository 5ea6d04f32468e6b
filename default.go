package apolog

var std = NewSession()

// Default returns the package-level session used by the package functions.
func Default() *Session {
	return std
}

// SetDefault replaces the package-level session.
func SetDefault(s *Session) {
	std = s
}

func Feature(name any, fn Declare, opts ...RegisterOption) { std.Feature(name, fn, opts...) }

func Background(name any, fn Declare, opts ...RegisterOption) { std.Background(name, fn, opts...) }

func Scenario(name any, fn Declare, opts ...RegisterOption) { std.Scenario(name, fn, opts...) }

func Step(name any, fn any, opts ...RegisterOption) { std.Step(name, fn, opts...) }

func Given(name any, fn any, opts ...RegisterOption) { std.Given(name, fn, opts...) }

func When(name any, fn any, opts ...RegisterOption) { std.When(name, fn, opts...) }

func Then(name any, fn any, opts ...RegisterOption) { std.Then(name, fn, opts...) }

func LoadSpecification(source any, file File) error { return std.LoadSpecification(source, file) }

func Run() []RunError { return std.Run() }
