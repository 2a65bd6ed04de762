package featureflags

var (
	// CompressedSamples lets the corpus loader transparently decompress
	// samples stored as zstd frames before looking for the code section.
	CompressedSamples = new("CompressedSamples", true)

	// ColorOutput highlights patterns found in every sample of the corpus
	// when the CLI writes to a terminal.
	ColorOutput = new("ColorOutput", true)

	// PubSubExtender determines whether the worker uses a real GCP extender
	// for keeping messages alive while a long scan is running.
	PubSubExtender = new("PubSubExtender", true)
)
