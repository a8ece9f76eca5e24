package constants

import "time"

const (
	DelayBetweenRPCCalls      = 200              // delay in milliseconds between RPC calls
	TransactionReceiptTimeout = 2 * time.Second  // timeout for transaction receipt
	CallContractTimeout       = 10 * time.Second // timeout for contract call
	ChainListTimeout          = 30 * time.Second // timeout for chainlist.org
	HealthCheckTimeout        = 3 * time.Second  // timeout for endpoint health check
	WalletPollInterval        = 2 * time.Second  // interval between wallet bridge state polls
	ConfirmationPollInterval  = 2 * time.Second  // interval between confirmation checks
	MaxRetries                = 10               // maximum number of retries for RPC calls
	MaxResponseBodySize       = 10 * 1024 * 1024 // maximum response body size in bytes (10MB)
	EndpointRefreshInterval   = 6 * time.Hour    // interval between chainlist refreshes
)

const (
	NativeDecimalsEVM    = 18
	NativeDecimalsSolana = 9
)

// Chain identifiers in canonical form
const (
	ChainEthereum      = "1"
	ChainGoerli        = "5"
	ChainSepolia       = "11155111"
	ChainPolygonMumbai = "80001"
	ChainLocal         = "1337"
	ChainLocalhost     = "31337"
	ChainSolanaDevnet  = "devnet"
	ChainSolanaTestnet = "testnet"
	ChainSolanaMainnet = "mainet"
)

// Wallet protocol methods
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodAccounts        = "eth_accounts"
	MethodChainID         = "eth_chainId"
	MethodSwitchChain     = "wallet_switchEthereumChain"
	MethodAddChain        = "wallet_addEthereumChain"
	MethodSendTransaction = "eth_sendTransaction"
	MethodGetBalance      = "eth_getBalance"
	MethodGetReceipt      = "eth_getTransactionReceipt"
	MethodBlockNumber     = "eth_blockNumber"
)

// Wallet events
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
	EventDisconnect      = "disconnect"
)

var OfficialRPCEndpoints = map[string][]string{
	ChainEthereum:      {"https://cloudflare-eth.com"},
	ChainSepolia:       {"https://rpc.sepolia.org"},
	ChainPolygonMumbai: {"https://rpc-mumbai.maticvigil.com"},
	ChainLocal:         {"http://127.0.0.1:8545"},
	ChainLocalhost:     {"http://127.0.0.1:8545"},
	ChainSolanaDevnet:  {"https://api.devnet.solana.com"},
	ChainSolanaTestnet: {"https://api.testnet.solana.com"},
	ChainSolanaMainnet: {"https://api.mainnet-beta.solana.com"},
}
