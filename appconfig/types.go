package appconfig

// AppMode is the conversational pattern of an application.
type AppMode string

const (
	AppModeChat       AppMode = "chat"
	AppModeCompletion AppMode = "completion"
)

// Model modes as stored in model.mode. An empty mode is legal outside of
// advanced prompts; downstream consumers interpret it.
const (
	ModelModeChat       = "chat"
	ModelModeCompletion = "completion"
)

// Prompt types.
const (
	PromptTypeSimple   = "simple"
	PromptTypeAdvanced = "advanced"
)

// Planning strategies an agent may use to decide tool invocation order.
const (
	StrategyRouter       = "router"
	StrategyReactRouter  = "react_router"
	StrategyReact        = "react"
	StrategyFunctionCall = "function_call"
)

var planningStrategies = []string{
	StrategyRouter,
	StrategyReactRouter,
	StrategyReact,
	StrategyFunctionCall,
}

// Account identifies the caller on whose behalf a configuration is being
// validated. Dataset references are checked against CurrentTenantID.
type Account struct {
	ID              string
	CurrentTenantID string
}

// Dataset is the view of a dataset the validator needs: existence and owner.
type Dataset struct {
	ID       string
	TenantID string
}

// DatasetLookup resolves dataset references. A nil dataset with a nil error
// means the dataset does not exist.
type DatasetLookup interface {
	GetDataset(datasetID string) (*Dataset, error)
}

// FeatureToggle is the {enabled: bool} object used by several app features.
type FeatureToggle struct {
	Enabled bool `json:"enabled"`
}

// SensitiveWordAvoidance configures the canned-response word filter.
type SensitiveWordAvoidance struct {
	Enabled        bool   `json:"enabled"`
	Words          string `json:"words"`
	CannedResponse string `json:"canned_response"`
}

// CompletionParams are the model sampling parameters. Normalization always
// emits exactly these six keys; extra caller-supplied keys are dropped.
type CompletionParams struct {
	MaxTokens        int      `json:"max_tokens"`
	Temperature      float64  `json:"temperature"`
	TopP             float64  `json:"top_p"`
	PresencePenalty  float64  `json:"presence_penalty"`
	FrequencyPenalty float64  `json:"frequency_penalty"`
	Stop             []string `json:"stop"`
}

// ModelParams selects the provider, model and sampling parameters.
type ModelParams struct {
	Provider         string           `json:"provider"`
	Name             string           `json:"name"`
	Mode             string           `json:"mode"`
	CompletionParams CompletionParams `json:"completion_params"`
}

// AgentMode configures agent behavior and its tool list.
type AgentMode struct {
	Enabled  bool        `json:"enabled"`
	Strategy string      `json:"strategy"`
	Tools    []ToolEntry `json:"tools"`
}

// ScoreThreshold gates retrieval results by similarity score.
type ScoreThreshold struct {
	Enable bool `json:"enable"`
}

// DatasetConfigs holds retrieval settings shared by all dataset tools.
type DatasetConfigs struct {
	TopK           int            `json:"top_k"`
	ScoreThreshold ScoreThreshold `json:"score_threshold"`
}

// AppModelConfig is the validated, normalized behavioral configuration of an
// application. It is only ever produced by Validator.Validate; a value of
// this type is safe to persist.
type AppModelConfig struct {
	OpeningStatement              string                 `json:"opening_statement"`
	SuggestedQuestions            []string               `json:"suggested_questions"`
	SuggestedQuestionsAfterAnswer FeatureToggle          `json:"suggested_questions_after_answer"`
	SpeechToText                  FeatureToggle          `json:"speech_to_text"`
	RetrieverResource             FeatureToggle          `json:"retriever_resource"`
	MoreLikeThis                  FeatureToggle          `json:"more_like_this"`
	SensitiveWordAvoidance        SensitiveWordAvoidance `json:"sensitive_word_avoidance"`
	Model                         ModelParams            `json:"model"`
	UserInputForm                 []FormField            `json:"user_input_form"`
	DatasetQueryVariable          string                 `json:"dataset_query_variable"`
	PrePrompt                     string                 `json:"pre_prompt"`
	AgentMode                     AgentMode              `json:"agent_mode"`
	PromptType                    string                 `json:"prompt_type"`
	ChatPromptConfig              map[string]any         `json:"chat_prompt_config"`
	CompletionPromptConfig        map[string]any         `json:"completion_prompt_config"`
	DatasetConfigs                DatasetConfigs         `json:"dataset_configs"`
}
