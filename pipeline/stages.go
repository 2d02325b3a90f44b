package pipeline

// Stage names as rendered in the progress numbering. Labels with
// runtime detail (build command, runtime version) are derived from
// these at execution time.
const (
	StagePrebuiltJar = "Using pre-built JAR"
	StageDetect      = "Detecting build system"
	StageBuild       = "Building uberjar"
	StageShrink      = "Shrinking JAR"
	StageFetchJDK    = "Downloading JDK"
	StageAnalyze     = "Analyzing module dependencies"
	StageLink        = "Creating minimal runtime"
	StageCheckpoint  = "Creating CRaC checkpoint"
	StagePack        = "Packing binary"
)

// Stage describes one pipeline stage before any stage runs.
type Stage struct {
	Name string
	// Optional stages downgrade their failures to a skip notice.
	Optional bool
}

// Stages returns the ordered stage list implied by the configuration:
// archive acquisition (one stage for a prebuilt jar, two for a
// project build), optional shrink, the four mandatory stages, and the
// optional checkpoint. The [i/total] numbering shown during a build
// is the index into this list.
func Stages(jarInput, shrink, crac bool) []Stage {
	var stages []Stage
	if jarInput {
		stages = append(stages, Stage{Name: StagePrebuiltJar})
	} else {
		stages = append(stages,
			Stage{Name: StageDetect},
			Stage{Name: StageBuild},
		)
	}
	if shrink {
		stages = append(stages, Stage{Name: StageShrink})
	}
	stages = append(stages,
		Stage{Name: StageFetchJDK},
		Stage{Name: StageAnalyze},
		Stage{Name: StageLink},
	)
	if crac {
		stages = append(stages, Stage{Name: StageCheckpoint, Optional: true})
	}
	stages = append(stages, Stage{Name: StagePack})
	return stages
}

// StageCount returns the total stage count for the configuration. It
// is the length of the stage list, so numbering and stage identity
// cannot drift apart.
func StageCount(jarInput, shrink, crac bool) int {
	return len(Stages(jarInput, shrink, crac))
}
