package refdata

import "fmt"

// Column aliases per canonical field, in fallback order. The first non-absent alias wins.
var (
	storeIDAliases      = []string{"Store ID", "storeId", "store_id", "id"}
	storeNameAliases    = []string{"Store Name", "storeName", "locationName", "name"}
	regionAliases       = []string{"Region", "region"}
	menuAliases         = []string{"Menu", "menu"}
	storeTypeAliases    = []string{"Store Type", "storeType"}
	conceptAliases      = []string{"Concept", "concept"}
	amIDAliases         = []string{"AM", "Area Manager ID", "amId"}
	amNameAliases       = []string{"AM Name", "amName", "Area Manager"}
	regionalHRAliases   = []string{"Regional HR ID", "Regional HR", "regionalHrId"}
	regionalHRNames     = []string{"Regional HR Name", "regionalHrName"}
	hrHeadAliases       = []string{"HR Head", "HR Head ID", "hrHeadId"}
	hrHeadNameAliases   = []string{"HR Head Name", "hrHeadName"}
	lmsHeadAliases      = []string{"E-Learning Specialist", "LMS Head ID", "lmsHeadId"}
	trainingHeadAliases = []string{"Training Head", "trainingHead"}
)

// trainerIDAliases returns the aliases of trainer slot n (1-3). Slot 1 also accepts
// the single-trainer columns of older mappings.
func trainerIDAliases(n int) []string {
	aliases := []string{
		fmt.Sprintf("Trainer %d ID", n),
		fmt.Sprintf("Trainer %d", n),
		fmt.Sprintf("trainer%dId", n),
	}
	if n == 1 {
		aliases = append(aliases, "Trainer ID", "Trainer", "trainerId", "trainer")
	}
	return aliases
}

func trainerNameAliases(n int) []string {
	aliases := []string{
		fmt.Sprintf("Trainer %d Name", n),
		fmt.Sprintf("trainer%dName", n),
	}
	if n == 1 {
		aliases = append(aliases, "Trainer Name", "trainerName")
	}
	return aliases
}

func hrbpIDAliases(n int) []string {
	aliases := []string{
		fmt.Sprintf("HRBP %d ID", n),
		fmt.Sprintf("HRBP %d", n),
		fmt.Sprintf("hrbp%dId", n),
	}
	if n == 1 {
		aliases = append(aliases, "HRBP", "HRBP ID", "hrbpId")
	}
	return aliases
}

func hrbpNameAliases(n int) []string {
	aliases := []string{
		fmt.Sprintf("HRBP %d Name", n),
		fmt.Sprintf("hrbp%dName", n),
	}
	if n == 1 {
		aliases = append(aliases, "HRBP Name", "hrbpName")
	}
	return aliases
}
