package enums

import "fmt"

// AssetType captures whether an approved asset eventually comes back to stock.
type AssetType string

const (
	AssetTypeReturnable    AssetType = "Returnable"
	AssetTypeNonReturnable AssetType = "NonReturnable"
)

var validAssetTypes = []AssetType{
	AssetTypeReturnable,
	AssetTypeNonReturnable,
}

// String implements fmt.Stringer.
func (a AssetType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AssetType.
func (a AssetType) IsValid() bool {
	for _, candidate := range validAssetTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssetType converts raw input into an AssetType.
func ParseAssetType(value string) (AssetType, error) {
	for _, candidate := range validAssetTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid asset type %q", value)
}
