package vulkan

/**
 * @brief Highest attachment location a subpass may use. Reference arrays are
 * densified up to the highest used location, so this bounds their size.
 */
const VULKAN_MAX_ATTACHMENT_LOCATION uint32 = 31
