package abis

// ABI for the base ERC-721 contract without data extensions.
const erc721NoDataABI = `[
  {"name": "name", "type": "function", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "string"}]},
  {"name": "symbol", "type": "function", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "string"}]},
  {"name": "tokenURI", "type": "function", "stateMutability": "view", "inputs": [{"name": "tokenId", "type": "uint256"}], "outputs": [{"name": "", "type": "string"}]},
  {"name": "ownerOf", "type": "function", "stateMutability": "view", "inputs": [{"name": "tokenId", "type": "uint256"}], "outputs": [{"name": "", "type": "address"}]},
  {"name": "balanceOf", "type": "function", "stateMutability": "view", "inputs": [{"name": "owner", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
  {"name": "getApproved", "type": "function", "stateMutability": "view", "inputs": [{"name": "tokenId", "type": "uint256"}], "outputs": [{"name": "", "type": "address"}]},
  {"name": "isApprovedForAll", "type": "function", "stateMutability": "view", "inputs": [{"name": "owner", "type": "address"}, {"name": "operator", "type": "address"}], "outputs": [{"name": "", "type": "bool"}]},
  {"name": "supportsInterface", "type": "function", "stateMutability": "view", "inputs": [{"name": "interfaceId", "type": "bytes4"}], "outputs": [{"name": "", "type": "bool"}]},
  {"name": "mint", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}], "outputs": []},
  {"name": "burn", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "from", "type": "address"}, {"name": "tokenId", "type": "uint256"}], "outputs": []},
  {"name": "approve", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}], "outputs": []},
  {"name": "setApprovalForAll", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "operator", "type": "address"}, {"name": "approved", "type": "bool"}], "outputs": []},
  {"name": "transferFrom", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "from", "type": "address"}, {"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}], "outputs": []},
  {"name": "safeTransferFrom", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "from", "type": "address"}, {"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}], "outputs": []},
  {"name": "safeTransferFrom", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "from", "type": "address"}, {"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "Transfer", "type": "event", "anonymous": false, "inputs": [{"name": "from", "type": "address", "indexed": true}, {"name": "to", "type": "address", "indexed": true}, {"name": "tokenId", "type": "uint256", "indexed": true}]},
  {"name": "Approval", "type": "event", "anonymous": false, "inputs": [{"name": "owner", "type": "address", "indexed": true}, {"name": "approved", "type": "address", "indexed": true}, {"name": "tokenId", "type": "uint256", "indexed": true}]},
  {"name": "ApprovalForAll", "type": "event", "anonymous": false, "inputs": [{"name": "owner", "type": "address", "indexed": true}, {"name": "operator", "type": "address", "indexed": true}, {"name": "approved", "type": "bool", "indexed": false}]}
]`

// ABI for the current ERC-721 "WithData" variant, including the URI
// extension and auto-indexing mint overload.
const erc721WithDataABI = `[
  {"name": "name", "type": "function", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "string"}]},
  {"name": "symbol", "type": "function", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "string"}]},
  {"name": "tokenURI", "type": "function", "stateMutability": "view", "inputs": [{"name": "tokenId", "type": "uint256"}], "outputs": [{"name": "", "type": "string"}]},
  {"name": "baseTokenUri", "type": "function", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "string"}]},
  {"name": "ownerOf", "type": "function", "stateMutability": "view", "inputs": [{"name": "tokenId", "type": "uint256"}], "outputs": [{"name": "", "type": "address"}]},
  {"name": "balanceOf", "type": "function", "stateMutability": "view", "inputs": [{"name": "owner", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
  {"name": "getApproved", "type": "function", "stateMutability": "view", "inputs": [{"name": "tokenId", "type": "uint256"}], "outputs": [{"name": "", "type": "address"}]},
  {"name": "isApprovedForAll", "type": "function", "stateMutability": "view", "inputs": [{"name": "owner", "type": "address"}, {"name": "operator", "type": "address"}], "outputs": [{"name": "", "type": "bool"}]},
  {"name": "supportsInterface", "type": "function", "stateMutability": "view", "inputs": [{"name": "interfaceId", "type": "bytes4"}], "outputs": [{"name": "", "type": "bool"}]},
  {"name": "mintWithURI", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}, {"name": "data", "type": "bytes"}, {"name": "tokenURI_", "type": "string"}], "outputs": []},
  {"name": "mintWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "mintWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "to", "type": "address"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "transferWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "from", "type": "address"}, {"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "burnWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "from", "type": "address"}, {"name": "tokenId", "type": "uint256"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "approveWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "setApprovalForAllWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "operator", "type": "address"}, {"name": "approved", "type": "bool"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "safeTransferFrom", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "from", "type": "address"}, {"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}], "outputs": []},
  {"name": "Transfer", "type": "event", "anonymous": false, "inputs": [{"name": "from", "type": "address", "indexed": true}, {"name": "to", "type": "address", "indexed": true}, {"name": "tokenId", "type": "uint256", "indexed": true}]},
  {"name": "Approval", "type": "event", "anonymous": false, "inputs": [{"name": "owner", "type": "address", "indexed": true}, {"name": "approved", "type": "address", "indexed": true}, {"name": "tokenId", "type": "uint256", "indexed": true}]},
  {"name": "ApprovalForAll", "type": "event", "anonymous": false, "inputs": [{"name": "owner", "type": "address", "indexed": true}, {"name": "operator", "type": "address", "indexed": true}, {"name": "approved", "type": "bool", "indexed": false}]}
]`

// ABI for the first-generation ERC-721 "WithData" contract, which predates
// the URI extension and auto-indexing. Pools created against it keep
// working through the legacy interface id probe.
const erc721WithDataV1ABI = `[
  {"name": "name", "type": "function", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "string"}]},
  {"name": "symbol", "type": "function", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "string"}]},
  {"name": "tokenURI", "type": "function", "stateMutability": "view", "inputs": [{"name": "tokenId", "type": "uint256"}], "outputs": [{"name": "", "type": "string"}]},
  {"name": "balanceOf", "type": "function", "stateMutability": "view", "inputs": [{"name": "owner", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
  {"name": "supportsInterface", "type": "function", "stateMutability": "view", "inputs": [{"name": "interfaceId", "type": "bytes4"}], "outputs": [{"name": "", "type": "bool"}]},
  {"name": "mintWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "transferWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "from", "type": "address"}, {"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "burnWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "from", "type": "address"}, {"name": "tokenId", "type": "uint256"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "approveWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "to", "type": "address"}, {"name": "tokenId", "type": "uint256"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "setApprovalForAllWithData", "type": "function", "stateMutability": "nonpayable", "inputs": [{"name": "operator", "type": "address"}, {"name": "approved", "type": "bool"}, {"name": "data", "type": "bytes"}], "outputs": []},
  {"name": "Transfer", "type": "event", "anonymous": false, "inputs": [{"name": "from", "type": "address", "indexed": true}, {"name": "to", "type": "address", "indexed": true}, {"name": "tokenId", "type": "uint256", "indexed": true}]},
  {"name": "Approval", "type": "event", "anonymous": false, "inputs": [{"name": "owner", "type": "address", "indexed": true}, {"name": "approved", "type": "address", "indexed": true}, {"name": "tokenId", "type": "uint256", "indexed": true}]},
  {"name": "ApprovalForAll", "type": "event", "anonymous": false, "inputs": [{"name": "owner", "type": "address", "indexed": true}, {"name": "operator", "type": "address", "indexed": true}, {"name": "approved", "type": "bool", "indexed": false}]}
]`
