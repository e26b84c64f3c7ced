package swarm

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: NewApp()}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// WithMaxFrames limits Run to n frames.
func (b *AppBuilder) WithMaxFrames(n uint64) *AppBuilder {
	b.app.MaxFrames = n
	return b
}

func (b *AppBuilder) Build() *App {
	app := b.app
	app.UseModules(b.modules...)
	app.build()
	return app
}
