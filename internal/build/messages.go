package build

// Messages are the human-readable notices shown after a build.
type Messages struct {
	CompilationSuccess string
	CompilationFailure string
}

var (
	watchMessages = Messages{
		CompilationSuccess: "Watching for changes. Edit a document and the site rebuilds.",
		CompilationFailure: "Build failed. Fix the error and save to rebuild.",
	}
	productionMessages = Messages{
		CompilationSuccess: "Build complete. Artifacts are ready for deployment.",
		CompilationFailure: "Build failed.",
	}
)

// MessagesFor returns the notices for watch mode or for a one-shot production build.
func MessagesFor(watch bool) Messages {
	if watch {
		return watchMessages
	}
	return productionMessages
}
