package swarm

// Commands is handed to modules and systems to reach app-level operations.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}

// Exit asks the App to stop after the current frame.
func (cmd *Commands) Exit() {
	cmd.app.Exit()
}
