package registry

// Action enumerates the operations a recipe task may invoke.
type Action int

const (
	Unknown Action = iota
	CreateProject
	UseExistingProject
	SetProjectFramework
	SetDeviceGroup
	SetDevice
	SetProjectParameters
	DeleteProjectParameter
	UploadFile
	StartTestRun
	GetTestRun
	AwaitCompletion
	GetProjectConfigs
	SetProjectConfigs
)

var actionNames = map[Action]string{
	CreateProject:          "create_project",
	UseExistingProject:     "use_existing_project",
	SetProjectFramework:    "set_project_framework",
	SetDeviceGroup:         "set_device_group",
	SetDevice:              "set_device",
	SetProjectParameters:   "set_project_parameters",
	DeleteProjectParameter: "delete_project_parameter",
	UploadFile:             "upload_file",
	StartTestRun:           "start_test_run",
	GetTestRun:             "get_test_run",
	AwaitCompletion:        "await_completion",
	GetProjectConfigs:      "get_project_configs",
	SetProjectConfigs:      "set_project_configs",
}

// aliases are accepted recipe spellings that map onto another action.
var aliases = map[string]Action{
	"notify_test_run_complete": AwaitCompletion,
}

var byName = func() map[string]Action {
	m := make(map[string]Action, len(actionNames)+len(aliases))
	for a, n := range actionNames {
		m[n] = a
	}
	for n, a := range aliases {
		m[n] = a
	}
	return m
}()

// ParseAction maps a recipe action name onto an Action.
func ParseAction(name string) (Action, bool) {
	a, ok := byName[name]
	return a, ok
}

// Actions returns every known action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, len(actionNames))
	for a := CreateProject; a <= SetProjectConfigs; a++ {
		out = append(out, a)
	}
	return out
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "unknown"
}
