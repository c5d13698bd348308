package abis

// ABI for the token factory contract. The five-argument create overload is
// the URI extension; its presence is probed through ERC-165 before use.
const tokenFactoryABI = `[
  {"name": "supportsInterface", "type": "function", "stateMutability": "view", "inputs": [{"name": "interfaceId", "type": "bytes4"}], "outputs": [{"name": "", "type": "bool"}]},
  {"name": "create", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "name", "type": "string"}, {"name": "symbol", "type": "string"}, {"name": "is_fungible", "type": "bool"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "create", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "name", "type": "string"}, {"name": "symbol", "type": "string"}, {"name": "is_fungible", "type": "bool"}, {"name": "data", "type": "bytes"}, {"name": "uri", "type": "string"}], "outputs": []},
  {"name": "TokenPoolCreation", "type": "event", "anonymous": false, "inputs": [{"name": "contract_address", "type": "address", "indexed": true}, {"name": "name", "type": "string", "indexed": false}, {"name": "symbol", "type": "string", "indexed": false}, {"name": "is_fungible", "type": "bool", "indexed": false}, {"name": "data", "type": "bytes", "indexed": false}]}
]`
