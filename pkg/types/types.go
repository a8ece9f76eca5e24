package types

// ChainType distinguishes the wallet protocol family of a chain
type ChainType string

const (
	ChainTypeEVM    ChainType = "evm"
	ChainTypeSolana ChainType = "solana"
)

// ChainDescriptor holds the static metadata of a single chain
// Loaded once from configuration and never mutated afterwards
type ChainDescriptor struct {
	ID          ChainID   `json:"id" toml:"id"`
	Name        string    `json:"name" toml:"name"`
	RPCURL      string    `json:"rpcUrl" toml:"rpc_url"`
	ExplorerURL string    `json:"explorerUrl" toml:"explorer_url"`
	Symbol      string    `json:"symbol" toml:"symbol"`
	Decimals    int       `json:"decimals" toml:"decimals"`
	Type        ChainType `json:"type" toml:"type"`
}

// EmptyChain returns the descriptor used for unknown chains
// Callers treat an empty Name as "unsupported chain"
func EmptyChain() ChainDescriptor {
	return ChainDescriptor{}
}

// IsEmpty reports whether the descriptor describes no known chain
func (c ChainDescriptor) IsEmpty() bool {
	return c.Name == ""
}

// ConnectionState is the observable state of a provider adapter
// A state value is always replaced as a whole
type ConnectionState struct {
	ChainID         ChainID `json:"chainId,omitempty"`
	SelectedAddress string  `json:"selectedAddress,omitempty"`
	ChainAvailable  bool    `json:"chainAvailable"`
}

// IsConnected is true only when an account is selected and the chain is one of the available chains
func (s ConnectionState) IsConnected() bool {
	return s.SelectedAddress != "" && s.ChainID != "" && s.ChainAvailable
}

// ProviderKind names a family of wallet providers
type ProviderKind string

const (
	ProviderInjectedWallet ProviderKind = "injected-wallet"
	ProviderRPC            ProviderKind = "rpc"
)

// DesignatedProvider is a provider found by the hosting environment's detection pass
type DesignatedProvider struct {
	Kind     ProviderKind `json:"kind"`
	Instance any          `json:"-"` // opaque handle, e.g. an evm.WalletProvider
}

// NotificationKind is the severity of a user-facing notification
type NotificationKind string

const (
	NotificationSuccess    NotificationKind = "success"
	NotificationWarning    NotificationKind = "warning"
	NotificationError      NotificationKind = "error"
	NotificationProcessing NotificationKind = "processing"
)

// Link is an optional hyperlink attached to a notification
type Link struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

// Notification is a message sent to the notification bus
type Notification struct {
	ID      string           `json:"id"`
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	Link    *Link            `json:"link,omitempty"`
}
