package fat32report

import "fmt"

func clusterContext(c uint32) string {
	return fmt.Sprintf("cluster %d", c)
}

func slotContext(index int) string {
	return fmt.Sprintf("directory slot %d", index)
}
