package oracleConfig

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/spf13/viper"
	"github.com/tony1908/pear2pear/pkg/config"
	"github.com/tony1908/pear2pear/pkg/priceFeed"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/yaml"
)

const (
	EnvPrefix = "ORACLE"

	Debug              = "debug"
	Transport          = "transport"
	GrpcPort           = "grpc-port"
	HttpPort           = "http-port"
	ResolverStrategy   = "resolver-strategy"
	StaticVerdict      = "static-verdict"
	PriceThreshold     = "price-threshold"
	PriceFeedUrl       = "price-feed-url"
	PriceFeedTimeoutMs = "price-feed-timeout-ms"

	DefaultPort = 8080
	// DefaultStaticVerdict is the verdict returned by the static strategy when none is configured.
	DefaultStaticVerdict = true
	// DefaultPriceThreshold is the price the threshold strategy compares against.
	DefaultPriceThreshold = 50000
)

// TransportType selects how the host reaches the oracle.
type TransportType string

const (
	TransportType_Grpc TransportType = "grpc"
	TransportType_Http TransportType = "http"
)

// ResolverStrategyType selects the verdict strategy.
type ResolverStrategyType string

const (
	ResolverStrategy_Static    ResolverStrategyType = "static"
	ResolverStrategy_Threshold ResolverStrategyType = "threshold"
)

type PriceFeedConfig struct {
	Url string `json:"url" yaml:"url"`
	// TimeoutMs bounds the request; 0 leaves it to the transport defaults.
	TimeoutMs int64 `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
}

func (pf *PriceFeedConfig) ToClientConfig() *priceFeed.ClientConfig {
	return &priceFeed.ClientConfig{
		Url:     pf.Url,
		Timeout: time.Duration(pf.TimeoutMs) * time.Millisecond,
	}
}

type ResolverConfig struct {
	Strategy ResolverStrategyType `json:"strategy" yaml:"strategy"`
	// StaticVerdict is only used by the static strategy; nil means DefaultStaticVerdict.
	StaticVerdict *bool `json:"staticVerdict,omitempty" yaml:"staticVerdict,omitempty"`
	// Threshold is only used by the threshold strategy; the verdict is price > Threshold.
	Threshold float64          `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	PriceFeed *PriceFeedConfig `json:"priceFeed,omitempty" yaml:"priceFeed,omitempty"`
}

func (rc *ResolverConfig) GetStaticVerdict() bool {
	if rc.StaticVerdict == nil {
		return DefaultStaticVerdict
	}
	return *rc.StaticVerdict
}

// Validate fills defaults for unset fields and validates the rest.
func (rc *ResolverConfig) Validate() error {
	var allErrors field.ErrorList

	if rc.Strategy == "" {
		rc.Strategy = ResolverStrategy_Static
	} else if !slices.Contains([]ResolverStrategyType{ResolverStrategy_Static, ResolverStrategy_Threshold}, rc.Strategy) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("strategy"), rc.Strategy, "strategy must be one of [static, threshold]"))
	}

	if rc.Strategy == ResolverStrategy_Threshold {
		if rc.Threshold == 0 {
			rc.Threshold = DefaultPriceThreshold
		} else if rc.Threshold < 0 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("threshold"), rc.Threshold, "threshold must be positive"))
		}
		if rc.PriceFeed == nil {
			rc.PriceFeed = &PriceFeedConfig{}
		}
		if rc.PriceFeed.Url == "" {
			rc.PriceFeed.Url = priceFeed.DefaultPriceFeedUrl
		}
		if rc.PriceFeed.TimeoutMs < 0 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("priceFeed.timeoutMs"), rc.PriceFeed.TimeoutMs, "timeoutMs cannot be negative"))
		}
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

type OracleConfig struct {
	Debug     bool
	Transport TransportType   `json:"transport" yaml:"transport"`
	GrpcPort  int             `json:"grpcPort" yaml:"grpcPort"`
	HttpPort  int             `json:"httpPort" yaml:"httpPort"`
	Resolver  *ResolverConfig `json:"resolver" yaml:"resolver"`
}

func (oc *OracleConfig) Validate() error {
	var allErrors field.ErrorList

	if oc.Transport == "" {
		oc.Transport = TransportType_Grpc
	} else if !slices.Contains([]TransportType{TransportType_Grpc, TransportType_Http}, oc.Transport) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("transport"), oc.Transport, "transport must be one of [grpc, http]"))
	}

	if oc.GrpcPort == 0 {
		oc.GrpcPort = DefaultPort
	} else if oc.GrpcPort < 0 || oc.GrpcPort > 65535 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("grpcPort"), oc.GrpcPort, "grpcPort must be between 1 and 65535"))
	}

	if oc.HttpPort == 0 {
		oc.HttpPort = DefaultPort
	} else if oc.HttpPort < 0 || oc.HttpPort > 65535 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("httpPort"), oc.HttpPort, "httpPort must be between 1 and 65535"))
	}

	if oc.Resolver == nil {
		oc.Resolver = &ResolverConfig{}
	}
	if err := oc.Resolver.Validate(); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("resolver"), oc.Resolver, err.Error()))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// NewOracleConfig builds the config from flags and environment variables bound into viper.
func NewOracleConfig() *OracleConfig {
	staticVerdict := viper.GetBool(config.NormalizeFlagName(StaticVerdict))
	return &OracleConfig{
		Debug:     viper.GetBool(config.NormalizeFlagName(Debug)),
		Transport: TransportType(viper.GetString(config.NormalizeFlagName(Transport))),
		GrpcPort:  viper.GetInt(config.NormalizeFlagName(GrpcPort)),
		HttpPort:  viper.GetInt(config.NormalizeFlagName(HttpPort)),
		Resolver: &ResolverConfig{
			Strategy:      ResolverStrategyType(viper.GetString(config.NormalizeFlagName(ResolverStrategy))),
			StaticVerdict: &staticVerdict,
			Threshold:     viper.GetFloat64(config.NormalizeFlagName(PriceThreshold)),
			PriceFeed: &PriceFeedConfig{
				Url:       viper.GetString(config.NormalizeFlagName(PriceFeedUrl)),
				TimeoutMs: viper.GetInt64(config.NormalizeFlagName(PriceFeedTimeoutMs)),
			},
		},
	}
}

func NewOracleConfigFromYamlBytes(data []byte) (*OracleConfig, error) {
	var oc *OracleConfig
	if err := yaml.Unmarshal(data, &oc); err != nil {
		return nil, err
	}
	return oc, nil
}

func NewOracleConfigFromJsonBytes(data []byte) (*OracleConfig, error) {
	var oc *OracleConfig
	if err := json.Unmarshal(data, &oc); err != nil {
		return nil, err
	}
	return oc, nil
}
